package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Suhwan623/ai-weeclass/internal/auth"
	"github.com/Suhwan623/ai-weeclass/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler,依赖注入 service 层。
type Handler struct {
	userSvc *service.UserService
	authSvc *service.AuthService
	roomSvc *service.RoomService
	chatSvc *service.ChatService
}

func NewHandler(userSvc *service.UserService, authSvc *service.AuthService, roomSvc *service.RoomService, chatSvc *service.ChatService) *Handler {
	return &Handler{userSvc: userSvc, authSvc: authSvc, roomSvc: roomSvc, chatSvc: chatSvc}
}

// writeError 把业务错误统一转换为 {statusCode, message, path} envelope。
// 未分类的错误落到 500。
func writeError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Status, gin.H{
			"statusCode": svcErr.Status,
			"message":    svcErr.Message,
			"path":       c.Request.URL.Path,
		})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"statusCode": http.StatusInternalServerError,
		"message":    "internal server error",
		"path":       c.Request.URL.Path,
	})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		writeError(c, service.ErrInvalidInput)
		return 0, false
	}
	return uint(n), true
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *credentialsRequest) validate() bool {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return false
	}
	if len(r.Username) < 2 || len(r.Username) > 50 {
		return false
	}
	// 上限 72 字节与 bcrypt 的输入长度限制一致。
	if len(r.Password) < 4 || len(r.Password) > 72 {
		return false
	}
	return true
}

// Signup 处理注册请求。
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.validate() {
		writeError(c, service.ErrInvalidInput)
		return
	}
	if _, err := h.userSvc.Signup(req.Username, req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "signup completed"})
}

// GetUser 按 ID 查询单个用户。
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userSvc.GetOne(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Login 校验凭证并签发 token 对。
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(c, service.ErrInvalidInput)
		return
	}
	identity, err := h.authSvc.ValidateCredentials(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	pair, err := h.authSvc.Login(*identity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// RefreshToken 用 refresh token 换发新 token 对。
func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		writeError(c, service.ErrInvalidInput)
		return
	}
	pair, err := h.authSvc.Refresh(req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

type roomRequest struct {
	Name string `json:"name"`
}

func (r *roomRequest) validate() bool {
	r.Name = strings.TrimSpace(r.Name)
	return r.Name != "" && len(r.Name) <= 128
}

// CreateRoom 创建房间。
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.validate() {
		writeError(c, service.ErrInvalidInput)
		return
	}
	room, err := h.roomSvc.Create(req.Name, auth.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GetRoom 查询单个房间。
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomSvc.Get(id, auth.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "room fetched", "data": room})
}

// ListRooms 查询请求者的全部房间。
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.roomSvc.List(auth.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "rooms fetched", "data": rooms})
}

// UpdateRoom 修改房间名。
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.validate() {
		writeError(c, service.ErrInvalidInput)
		return
	}
	room, err := h.roomSvc.Rename(id, auth.GetUserID(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "room updated", "data": room})
}

// DeleteRoom 删除单个房间及其消息。
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomSvc.Delete(id, auth.GetUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAllRooms 删除请求者的全部房间。
func (h *Handler) DeleteAllRooms(c *gin.Context) {
	if err := h.roomSvc.DeleteAll(auth.GetUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Chat 在房间内完成一轮 AI 对话。
func (h *Handler) Chat(c *gin.Context) {
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}
	var req struct {
		UserMessage string `json:"userMessage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserMessage) == "" {
		writeError(c, service.ErrInvalidInput)
		return
	}
	result, err := h.chatSvc.Chat(c.Request.Context(), auth.GetUserID(c), roomID, req.UserMessage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"statusCode": http.StatusCreated, "message": "chat created", "data": result})
}

// GetChat 查询单轮对话。
func (h *Handler) GetChat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.chatSvc.Get(id, auth.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "chat fetched", "data": msg})
}

// ListChats 查询请求者的全部对话。
func (h *Handler) ListChats(c *gin.Context) {
	msgs, err := h.chatSvc.List(auth.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "chats fetched", "data": msgs})
}

// ListRoomChats 查询指定房间的对话,时间升序。
func (h *Handler) ListRoomChats(c *gin.Context) {
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}
	msgs, err := h.chatSvc.ListByRoom(auth.GetUserID(c), roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "message": "room chats fetched", "data": msgs})
}

// DeleteChat 删除单轮对话。
func (h *Handler) DeleteChat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chatSvc.Delete(id, auth.GetUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAllChats 删除请求者的全部对话。
func (h *Handler) DeleteAllChats(c *gin.Context) {
	if err := h.chatSvc.DeleteAll(auth.GetUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/Suhwan623/ai-weeclass/internal/metrics"
	"github.com/Suhwan623/ai-weeclass/internal/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"gorm.io/gorm"
)

// 上下文窗口与采样参数,与对端模型约定保持固定。
const (
	contextTurns        = 20
	completionTemp      = 0.4
	completionMaxTokens = 500
)

// Completer 抽象对话补全调用,测试可注入假实现。
// *openai.LLM 满足该接口。
type Completer interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ChatService 负责上下文拼装、补全调用与对话轮次的持久化/查询。
type ChatService struct {
	db     *gorm.DB
	llm    Completer
	prompt string
	locks  *RoomLocks
}

func NewChatService(db *gorm.DB, llm Completer, prompt string) *ChatService {
	return &ChatService{db: db, llm: llm, prompt: prompt, locks: NewRoomLocks()}
}

// MessageDTO 是一轮对话的对外输出。
type MessageDTO struct {
	ID          uint   `json:"id"`
	UserMessage string `json:"userMessage"`
	AIResponse  string `json:"aiResponse"`
}

// Chat 在指定房间内完成一轮对话:
// 校验房间归属 -> 加载最近上下文 -> 调用补全 -> 成功后才落库。
// 补全失败直接向上传播,不产生半写入。
func (s *ChatService) Chat(ctx context.Context, userID, roomID uint, userMessage string) (*MessageDTO, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if err := authorize(room.UserID, userID); err != nil {
		return nil, err
	}

	// 同一房间的"读上下文-追加消息"串行执行,避免并发插入交错。
	unlock := s.locks.Lock(roomID)
	defer unlock()

	turns, err := s.recentTurns(roomID)
	if err != nil {
		return nil, err
	}

	content := buildContext(s.prompt, turns, userMessage)

	start := time.Now()
	out, err := s.llm.GenerateContent(ctx, content,
		llms.WithTemperature(completionTemp),
		llms.WithMaxTokens(completionMaxTokens),
	)
	metrics.ObserveCompletion(time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("empty completion response")
	}
	reply := out.Choices[0].Content

	msg := models.Message{
		UserID:      userID,
		RoomID:      roomID,
		UserMessage: userMessage,
		AIResponse:  reply,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &MessageDTO{ID: msg.ID, UserMessage: msg.UserMessage, AIResponse: msg.AIResponse}, nil
}

// recentTurns 取最近 contextTurns 条并翻转为时间升序。
func (s *ChatService) recentTurns(roomID uint) ([]models.Message, error) {
	var turns []models.Message
	if err := s.db.Where("room_id = ?", roomID).Order("id desc").Limit(contextTurns).Find(&turns).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// buildContext 构造送往补全 API 的消息序列:
// system 提示词在前,历史轮次按时间展开,新消息永远是最后一条。
func buildContext(prompt string, turns []models.Message, userMessage string) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, 2*len(turns)+2)
	content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, prompt))
	for _, t := range turns {
		if t.UserMessage != "" {
			content = append(content, llms.TextParts(schema.ChatMessageTypeHuman, t.UserMessage))
		}
		if t.AIResponse != "" {
			content = append(content, llms.TextParts(schema.ChatMessageTypeAI, t.AIResponse))
		}
	}
	content = append(content, llms.TextParts(schema.ChatMessageTypeHuman, userMessage))
	return content
}

// Get 按主键查询单轮对话,先区分不存在再检查归属。
func (s *ChatService) Get(id, userID uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if err := authorize(msg.UserID, userID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// List 返回请求者的全部对话。
func (s *ChatService) List(userID uint) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	if err := s.db.Where("user_id = ?", userID).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByRoom 返回请求者在指定房间的对话,按时间升序。
func (s *ChatService) ListByRoom(userID, roomID uint) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	if err := s.db.Where("user_id = ? AND room_id = ?", userID, roomID).Order("id asc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// Delete 删除单轮对话,归属不符返回 ErrAccessDenied。
func (s *ChatService) Delete(id, userID uint) error {
	msg, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.db.Delete(msg).Error
}

// DeleteAll 删除请求者的全部对话。
func (s *ChatService) DeleteAll(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Message{}).Error
}

package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Suhwan623/ai-weeclass/internal/auth"
	"github.com/Suhwan623/ai-weeclass/internal/config"
	"github.com/Suhwan623/ai-weeclass/internal/metrics"
	"github.com/Suhwan623/ai-weeclass/internal/mw"
	"github.com/Suhwan623/ai-weeclass/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter 统一初始化 Gin 中间件与全部 REST API。
// 返回的 cleanup 释放限速器等后台资源,应在停服时调用。
func SetupRouter(cfg config.Config, db *gorm.DB, llm service.Completer) (*gin.Engine, func()) {
	userSvc := service.NewUserService(db)
	authSvc := service.NewAuthService(db, cfg)
	roomSvc := service.NewRoomService(db)
	chatSvc := service.NewChatService(db, llm, cfg.SystemPrompt)
	h := NewHandler(userSvc, authSvc, roomSvc, chatSvc)

	limiter := mw.NewLimiter(rate.Every(time.Second/20), 40, 2*time.Minute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	r.Use(limiter.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/user/signup", h.Signup)
	api.GET("/user/:id", h.GetUser)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/login/token", h.RefreshToken)

	// 需要 Bearer access token 的业务接口。
	authed := api.Group("")
	authed.Use(auth.Middleware(cfg, db))

	authed.POST("/room", h.CreateRoom)
	authed.GET("/room", h.ListRooms)
	authed.GET("/room/:id", h.GetRoom)
	authed.PATCH("/room/:id", h.UpdateRoom)
	authed.DELETE("/room/:id", h.DeleteRoom)
	authed.DELETE("/room", h.DeleteAllRooms)

	authed.POST("/chat/:roomId", h.Chat)
	authed.GET("/chat", h.ListChats)
	authed.GET("/chat/:id", h.GetChat)
	authed.GET("/chat/room/:roomId", h.ListRoomChats)
	authed.DELETE("/chat/:id", h.DeleteChat)
	authed.DELETE("/chat", h.DeleteAllChats)

	serveSPA(r)
	return r, limiter.Stop
}

// serveSPA 若存在前端构建产物则托管静态页面,未知路径回退到 index.html。
func serveSPA(r *gin.Engine) {
	distDir := filepath.Join(".", "frontend", "dist")
	if _, err := os.Stat(filepath.Join(distDir, "index.html")); err != nil {
		return
	}
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Status(http.StatusNotFound)
			return
		}
		rel := strings.TrimPrefix(filepath.Clean(c.Request.URL.Path), "/")
		if strings.HasPrefix(rel, "api/") || rel == "metrics" || rel == "healthz" {
			c.Status(http.StatusNotFound)
			return
		}
		target := filepath.Join(distDir, rel)
		if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
			c.File(target)
			return
		}
		if strings.Contains(rel, ".") {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(filepath.Join(distDir, "index.html"))
	})
}

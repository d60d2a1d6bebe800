// internal/api/router.go
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"github.com/Corphon/TubeGenius/internal/config"
	"github.com/Corphon/TubeGenius/internal/di"
	"github.com/Corphon/TubeGenius/internal/services"
	"github.com/Corphon/TubeGenius/internal/utils"
)

// SetupRouter 配置HTTP路由，服务从容器中获取
func SetupRouter(cfg *config.Config, container *di.Container, logger *zap.Logger) (*gin.Engine, *WebSocketManager, error) {
	logger = utils.OrNop(logger)
	if cfg == nil {
		cfg = config.GetCurrentConfig()
	}

	llmService, err := di.Resolve[*services.LLMService](container, di.ServiceLLM)
	if err != nil {
		return nil, nil, fmt.Errorf("LLM服务未正确初始化: %w", err)
	}
	gatewayService, err := di.Resolve[*services.GatewayService](container, di.ServiceGateway)
	if err != nil {
		return nil, nil, fmt.Errorf("网关服务未正确初始化: %w", err)
	}
	sessionService, err := di.Resolve[*services.SessionService](container, di.ServiceSession)
	if err != nil {
		return nil, nil, fmt.Errorf("会话服务未正确初始化: %w", err)
	}

	wsManager := NewWebSocketManager(cfg.AllowedOrigins, logger)
	handler := NewHandler(llmService, gatewayService, sessionService, wsManager, logger)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(ZapLoggerMiddleware(logger))
	r.Use(RecoveryMiddleware(logger, handler.Response))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins, logger)))

	// HTTP 指标，同时挂载 /metrics
	p := ginprometheus.NewPrometheus("gin")
	p.Use(r)

	r.GET("/health", handler.Health)

	// WebSocket 支持
	r.GET("/ws/sessions/:id", handler.SessionWebSocket)

	// ===============================
	// API路由组
	// ===============================
	api := r.Group("/api")
	{
		api.GET("/options", handler.GetOptions)

		// 无状态网关
		api.POST("/analyze", handler.Analyze)
		api.POST("/topics", handler.SuggestTopics)
		api.POST("/scripts", handler.GenerateScript)

		// ===============================
		// LLM配置相关路由
		// ===============================
		llmGroup := api.Group("/llm")
		{
			llmGroup.GET("/status", handler.GetLLMStatus)
			llmGroup.GET("/models", handler.GetLLMModels)
			llmGroup.PUT("/config", handler.UpdateLLMConfig)
		}

		// ===============================
		// 会话相关路由
		// ===============================
		api.POST("/sessions", handler.CreateSession)
		sessionGroup := api.Group("/sessions/:id")
		{
			sessionGroup.GET("", handler.GetSession)
			sessionGroup.DELETE("", handler.DeleteSession)
			sessionGroup.PUT("/view", handler.SetView)

			analyzerGroup := sessionGroup.Group("/analyzer")
			{
				analyzerGroup.GET("", handler.GetAnalyzer)
				analyzerGroup.PUT("/input", handler.SetAnalyzerInput)
				analyzerGroup.POST("/submit", handler.SubmitAnalyzer)
				analyzerGroup.DELETE("/notice", handler.DismissAnalyzerNotice)
			}

			ideasGroup := sessionGroup.Group("/ideas")
			{
				ideasGroup.GET("", handler.GetIdeas)
				ideasGroup.PUT("/input", handler.SetIdeasInput)
				ideasGroup.POST("/submit", handler.SubmitIdeas)
				ideasGroup.POST("/select", handler.SelectIdea)
			}

			generatorGroup := sessionGroup.Group("/generator")
			{
				generatorGroup.GET("", handler.GetGenerator)
				generatorGroup.PUT("/config", handler.SetGeneratorConfig)
				generatorGroup.POST("/submit", handler.SubmitGenerator)
				generatorGroup.GET("/script", handler.DownloadScript)
			}
		}

		api.GET("/ws/status", handler.GetWebSocketStatus)
	}

	return r, wsManager, nil
}

// corsConfig 未配置来源时允许任意来源但不带凭据
func corsConfig(allowedOrigins []string, logger *zap.Logger) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}
	corsCfg.MaxAge = 12 * time.Hour

	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			origins = append(origins, origin)
		} else if origin != "" {
			logger.Warn("⚠️ 忽略无效的跨域来源", zap.String("origin", origin))
		}
	}

	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	return corsCfg
}

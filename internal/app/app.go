// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Corphon/TubeGenius/internal/api"
	"github.com/Corphon/TubeGenius/internal/config"
	"github.com/Corphon/TubeGenius/internal/di"
	"github.com/Corphon/TubeGenius/internal/services"
	"github.com/Corphon/TubeGenius/internal/utils"
)

// Server HTTP 服务器接口，便于测试替换
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// App 应用程序实例
type App struct {
	config    *config.Config
	logger    *zap.Logger
	router    http.Handler
	server    Server
	wsManager *api.WebSocketManager
	stopChan  chan os.Signal
}

var (
	instance *App
	mu       sync.Mutex
)

// GetApp 获取应用实例（单例）
func GetApp() *App {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		instance = &App{
			logger:   zap.NewNop(),
			stopChan: make(chan os.Signal, 1),
		}
	}
	return instance
}

// Initialize 初始化服务、路由和 HTTP 服务器
func (a *App) Initialize(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil {
		return fmt.Errorf("配置不能为空")
	}
	a.config = cfg
	a.logger = utils.OrNop(logger)

	if err := InitServices(cfg, a.logger); err != nil {
		return fmt.Errorf("初始化服务失败: %w", err)
	}

	router, wsManager, err := api.SetupRouter(cfg, di.GetContainer(), a.logger)
	if err != nil {
		return fmt.Errorf("设置路由失败: %w", err)
	}
	a.router = router
	a.wsManager = wsManager
	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("✅ 应用初始化完成", zap.String("port", cfg.Port))
	return nil
}

// InitServices 按依赖顺序创建服务并注册到全局容器
func InitServices(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil {
		return fmt.Errorf("配置不能为空")
	}
	logger = utils.OrNop(logger)
	container := di.GetContainer()

	// 1. LLM 服务，缺少密钥时以待机模式运行
	llmService := services.NewLLMService(cfg, logger)
	container.Register(di.ServiceLLM, llmService)
	if status := llmService.GetProviderStatus(); status.Ready {
		logger.Info("✅ LLM服务已就绪",
			zap.String("provider", status.Provider),
			zap.String("model", status.DefaultModel))
	} else {
		logger.Warn("⚠️ LLM服务未就绪，可通过 /api/llm/config 配置",
			zap.String("provider", cfg.LLMProvider),
			zap.String("state", status.State))
	}

	// 2. AI 网关
	gatewayService := services.NewGatewayService(llmService, logger)
	container.Register(di.ServiceGateway, gatewayService)

	// 3. 会话，定期清理空闲会话
	if previous, err := di.Resolve[*services.SessionService](container, di.ServiceSession); err == nil {
		previous.Stop()
	}
	sessionService := services.NewSessionService(gatewayService, logger)
	sessionService.StartSweeper(cfg.SessionSweepInterval, cfg.SessionIdleTTL)
	container.Register(di.ServiceSession, sessionService)

	logger.Info("✅ 所有服务初始化完成", zap.Strings("services", container.GetNames()))
	return nil
}

// Run 启动服务器并等待退出信号
func Run() error {
	a := GetApp()
	if a.server == nil {
		return fmt.Errorf("应用未初始化")
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("🌐 服务器启动", zap.String("port", a.portOrDefault()))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)

	select {
	case sig := <-a.stopChan:
		a.logger.Info("🛑 收到退出信号，正在关闭服务器...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		a.cleanup()
		return fmt.Errorf("启动服务器失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if a.wsManager != nil {
		a.wsManager.Shutdown()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		a.cleanup()
		return fmt.Errorf("服务器强制关闭: %w", err)
	}

	a.cleanup()
	a.logger.Info("✅ 服务器优雅关闭完成")
	return nil
}

// cleanup 停止后台任务并刷新日志
func (a *App) cleanup() {
	if sessions, err := di.Resolve[*services.SessionService](di.GetContainer(), di.ServiceSession); err == nil {
		sessions.Stop()
	}
	_ = a.logger.Sync()
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config == nil || a.config.ShutdownTimeout <= 0 {
		return 30 * time.Second
	}
	return a.config.ShutdownTimeout
}

func (a *App) portOrDefault() string {
	if a.config == nil || a.config.Port == "" {
		return "8080"
	}
	return a.config.Port
}

// GetConfig 获取应用配置
func (a *App) GetConfig() *config.Config {
	return a.config
}

// Router 返回 HTTP 处理器
func (a *App) Router() http.Handler {
	return a.router
}

// GetDIContainer 获取依赖注入容器
func GetDIContainer() *di.Container {
	return di.GetContainer()
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	a := GetApp()
	return a.config != nil && a.config.DebugMode
}

// cmd/server/main.go
package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/Corphon/TubeGenius/internal/app"
	"github.com/Corphon/TubeGenius/internal/config"
	"github.com/Corphon/TubeGenius/internal/utils"
)

func main() {
	log.Println("🚀 启动 TubeGenius 服务器...")

	// 1. 加载配置（.env 可选）
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	logger, err := utils.InitLogger(utils.LoggerConfig{
		Level:      cfg.LogLevel,
		Encoding:   cfg.LogEncoding,
		OutputPath: cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("初始化日志系统失败: %v", err)
	}
	defer logger.Sync()

	logger.Info("✅ 配置加载完成",
		zap.String("port", cfg.Port),
		zap.String("provider", cfg.LLMProvider),
		zap.Bool("debug", cfg.DebugMode))

	// 3. 初始化服务和路由
	application := app.GetApp()
	if err := application.Initialize(cfg, logger); err != nil {
		logger.Fatal("❌ 应用初始化失败", zap.Error(err))
	}

	// 4. 启动并等待退出信号
	logger.Info("🔗 访问地址", zap.String("url", "http://localhost:"+cfg.Port))
	if err := app.Run(); err != nil {
		logger.Fatal("❌ 服务器运行失败", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"silent-sos/internal/common/logger"
	"silent-sos/internal/config"
	"silent-sos/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化Logger
	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "silent-sos")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting silent-sos service",
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.Bool("redis_enabled", cfg.RedisEnabled),
		zap.Bool("db_enabled", cfg.DBEnabled),
		zap.Bool("mqtt_enabled", cfg.MQTTEnabled),
	)

	// 创建服务
	sosService, err := service.NewSilentSOSService(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create silent-sos service", zap.Error(err))
	}

	// 启动服务
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sosService.Start(ctx); err != nil {
		zapLogger.Fatal("Failed to start silent-sos service", zap.Error(err))
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	zapLogger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	// 优雅关闭
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := sosService.Stop(shutdownCtx); err != nil {
		zapLogger.Error("Error during shutdown", zap.Error(err))
	}

	zapLogger.Info("Service stopped")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	app "videogen-service/ddd/application/app"
	"videogen-service/pkg/config"
	"videogen-service/pkg/logger"
	"videogen-service/pkg/manager"
	"videogen-service/pkg/observability"
	"videogen-service/pkg/task"

	_ "videogen-service/ddd/infrastructure/worker"
	_ "videogen-service/internal/resource"
)

// 纯worker进程: 不开HTTP, 只跑阶段工作器和流水线协调器。
// API和worker也可以合在一个进程里跑(根进程), 这个入口用于单独扩容worker。
func main() {
	observability.StartProfiling("videogen-worker")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.dev.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	cfg.Worker.Enabled = true
	config.SetGlobalConfig(cfg)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	defer logService.Close()

	logger.Infof("Videogen worker starting")

	manager.MustInitResources()
	defer manager.CloseResources()

	app.DefaultPipelineCoordinator().Register()

	deps := &manager.Dependencies{
		Config:             cfg,
		PipelineAppService: app.DefaultPipelineApp(),
	}
	manager.MustInitComponents(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := task.StartAll(ctx); err != nil {
		logger.Fatalf("Failed to start background tasks: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down worker...")
	task.StopAll()
	manager.Shutdown()
	logger.Infof("Worker exited")
}

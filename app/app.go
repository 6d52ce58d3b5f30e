package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "videogen-service/ddd/application/app"
	"videogen-service/pkg/config"
	"videogen-service/pkg/logger"
	"videogen-service/pkg/manager"
	"videogen-service/pkg/middleware"
	"videogen-service/pkg/registry"
	"videogen-service/pkg/task"

	_ "videogen-service/ddd/adapter/component"
	_ "videogen-service/ddd/adapter/http"
	_ "videogen-service/ddd/infrastructure/worker"

	// 导入资源包以触发init函数
	_ "videogen-service/internal/resource"
)

func Run() {
	// 先使用标准输出确保能看到日志
	fmt.Println("[STARTUP] Starting videogen service...")

	// 加载配置
	fmt.Println("[STARTUP] Loading config file...")
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 设置全局配置（必须在资源管理器初始化之前）
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 立即初始化日志服务（确保所有后续组件都能使用正确的日志器）
	fmt.Println("[STARTUP] Initializing logger...")
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	fmt.Println("[STARTUP] Logger initialized")

	logger.Debug("Logger initialized", map[string]interface{}{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"output": cfg.Log.Output,
	})

	logger.Infof("Videogen service starting version=%s", "1.0.0")

	// worker进程要跑对齐阶段, 启动时就确认外部程序在
	if cfg.Worker.Enabled {
		checkStageBinaries(cfg)
	}

	// 资源管理器初始化
	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	// 初始化应用服务
	pipelineAppService := app.DefaultPipelineApp()

	// 协调器挂上事件监听, 阶段完成后推进流水线
	app.DefaultPipelineCoordinator().Register()

	// 创建依赖注入容器
	deps := &manager.Dependencies{
		Config:             cfg,
		PipelineAppService: pipelineAppService,
	}

	// 初始化所有组件
	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	// 启动后台任务（阶段工作器等）
	taskCtx, taskCancel := context.WithCancel(context.Background())
	defer taskCancel()
	if err := task.StartAll(taskCtx); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}

	// 创建Gin引擎
	logger.Infof("Creating HTTP routes...")
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	router.Use(middleware.RequestContextMiddleware())

	// 添加健康检查端点
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "videogen-service",
			"timestamp": time.Now().Unix(),
		})
	})

	// 注册所有路由
	logger.Infof("Registering routes...")
	manager.RegisterAllRoutes(router)
	logger.Infof("Routes registered")

	// 启动HTTP服务器
	port := getEnv("PORT", fmt.Sprintf("%d", cfg.Server.Port))
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()

	logger.Infof("HTTP server started port=%s service=%s", port, "videogen-service")

	// 注册到etcd服务发现
	serviceRegistry := registerService(cfg, port)
	if serviceRegistry != nil {
		defer func() {
			if err := serviceRegistry.Deregister(); err != nil {
				logger.Errorf("Failed to deregister service: %v", err)
			}
		}()
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	// 停止后台任务和组件
	logger.Infof("Stopping background tasks...")
	task.StopAll()
	logger.Infof("Shutting down components...")
	manager.Shutdown()
	logger.Infof("Components closed")

	// 设置5秒超时
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")

	logger.Infof("Closing logger...")
	if logService != nil {
		logService.Close()
	}

	fmt.Println("[SHUTDOWN] Videogen service exited safely")
}

// registerService 按配置把本实例注册进etcd, 未启用时返回nil
func registerService(cfg *config.Config, port string) *registry.ServiceRegistry {
	rc := cfg.ServiceRegistry
	if !rc.Enabled {
		return nil
	}

	serviceID := rc.ServiceID
	if serviceID == "" {
		serviceID = uuid.NewString()
	}
	host := rc.RegisterHost
	if host == "" {
		host = "127.0.0.1"
	}

	serviceRegistry, err := registry.NewServiceRegistry(
		registry.RegistryConfig{
			Endpoints:   rc.Endpoints,
			DialTimeout: rc.DialTimeout,
		},
		registry.ServiceConfig{
			ServiceName:     rc.ServiceName,
			ServiceID:       serviceID,
			TTL:             rc.TTL,
			RefreshInterval: rc.RefreshInterval,
		},
		fmt.Sprintf("%s:%s", host, port),
	)
	if err != nil {
		logger.Errorf("Failed to create service registry: %v", err)
		return nil
	}
	if err := serviceRegistry.Register(); err != nil {
		logger.Errorf("Failed to register service: %v", err)
		return nil
	}
	return serviceRegistry
}

// checkStageBinaries 启动阶段确认ffprobe和识别器可执行文件存在
func checkStageBinaries(cfg *config.Config) {
	ffprobeBin := cfg.Backends.FFprobeBin
	if strings.TrimSpace(ffprobeBin) == "" {
		ffprobeBin = "ffprobe"
	}
	if _, err := exec.LookPath(ffprobeBin); err != nil {
		logger.Fatal(fmt.Sprintf("ffprobe binary not found, please install or set backends.ffprobe_bin binary=%s error=%s", ffprobeBin, err.Error()))
	}
	if cfg.Backends.RecognizerURL == "" {
		if _, err := exec.LookPath(cfg.Backends.RecognizerBin); err != nil {
			logger.Fatal(fmt.Sprintf("recognizer binary not found, set backends.recognizer_bin or backends.recognizer_url binary=%s error=%s", cfg.Backends.RecognizerBin, err.Error()))
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// resolveConfigPath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}

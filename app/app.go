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

	"clipflow-service/internal/resource"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
	"clipflow-service/pkg/manager"
	"clipflow-service/pkg/middleware"
	"clipflow-service/pkg/registry"
	"clipflow-service/pkg/task"

	_ "clipflow-service/ddd/adapter/component"
	_ "clipflow-service/ddd/adapter/http"
)

// Run 装配并运行管道Worker进程
func Run() {
	fmt.Println("[STARTUP] Starting clipflow service...")

	// 加载配置
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 设置全局配置（必须在资源管理器初始化之前）
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 立即初始化日志服务
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	logger.Infof("Clipflow service starting")

	// 媒体工具链在启动阶段检查，缺了直接失败
	mustLookPath("ffmpeg", cfg.Pipeline.FFmpegBinaryPath)
	mustLookPath("yt-dlp", cfg.Pipeline.YtdlpBinaryPath)

	// 资源管理器初始化
	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	// 创建依赖注入容器
	deps := &manager.Dependencies{
		DB:     resource.DefaultMysqlResource().MainDB(),
		Config: cfg,
	}

	// 初始化所有组件（Worker组件会把PipelineApp装进deps）
	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	// 启动后台任务（拉取循环、Worker池）
	taskCtx, taskCancel := context.WithCancel(context.Background())
	defer taskCancel()
	if err := task.StartAll(taskCtx); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}
	logger.Infof("Background tasks started")

	// 创建Gin引擎
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	router.Use(middleware.RequestContextMiddleware())

	// 健康检查端点
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "clipflow-service",
			"timestamp": time.Now().Unix(),
		})
	})

	// 注册所有路由
	manager.RegisterAllRoutes(router, deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started address=%s", addr)

	// 可选的etcd服务注册
	serviceRegistry := registerService(cfg, addr)

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Warnf("Service deregister failed error=%v", err)
		}
	}

	// 先停后台任务，给在途作业一个宽限期
	grace := cfg.Worker.ShutdownGracePeriod
	if grace <= 0 {
		grace = 30 * time.Second
	}
	stopDone := make(chan struct{})
	go func() {
		task.StopAll()
		close(stopDone)
	}()
	select {
	case <-stopDone:
		logger.Infof("Background tasks stopped")
	case <-time.After(grace):
		logger.Warnf("Background tasks did not stop within grace period grace=%s", grace)
	}

	// 关闭所有组件
	manager.Shutdown()
	logger.Infof("Components closed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")
	if logService != nil {
		logService.Close()
	}
	fmt.Println("[SHUTDOWN] Clipflow service exited safely")
}

// mustLookPath 检查外部二进制是否可用
func mustLookPath(name, configured string) {
	bin := configured
	if strings.TrimSpace(bin) == "" {
		bin = name
	}
	if _, err := exec.LookPath(bin); err != nil {
		logger.Fatal(fmt.Sprintf("%s binary not found, please install or configure its path binary=%s error=%s", name, bin, err.Error()))
	}
}

// registerService 按配置注册到etcd；未启用返回nil
func registerService(cfg *config.Config, addr string) *registry.ServiceRegistry {
	if !cfg.ServiceRegistry.Enabled {
		return nil
	}

	registerAddr := addr
	if cfg.ServiceRegistry.RegisterHost != "" {
		registerAddr = fmt.Sprintf("%s:%d", cfg.ServiceRegistry.RegisterHost, cfg.Server.Port)
	}

	serviceRegistry, err := registry.NewServiceRegistry(
		registry.RegistryConfig{Endpoints: cfg.ServiceRegistry.Endpoints},
		registry.ServiceConfig{
			ServiceName:     cfg.ServiceRegistry.ServiceName,
			ServiceID:       cfg.ServiceRegistry.ServiceID,
			TTL:             cfg.ServiceRegistry.TTL,
			RefreshInterval: cfg.ServiceRegistry.RefreshInterval,
		},
		registerAddr,
	)
	if err != nil {
		logger.Warnf("Service registry init failed error=%v", err)
		return nil
	}
	if err := serviceRegistry.Register(); err != nil {
		logger.Warnf("Service register failed error=%v", err)
		return nil
	}
	logger.Infof("Service registered name=%s address=%s", cfg.ServiceRegistry.ServiceName, registerAddr)
	return serviceRegistry
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

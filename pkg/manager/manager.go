package manager

import (
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// Dependencies 依赖注入容器，在进程启动时装配一次并显式传递
type Dependencies struct {
	DB          *gorm.DB
	Config      *config.Config
	PipelineApp interface{}
}

// Resource 外部资源（数据库、Redis、MinIO、Kafka）的生命周期
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin 资源插件
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Component 长生命周期组件（消费者、Worker池）
type Component interface {
	Start() error
	Stop() error
	GetName() string
}

// ComponentPlugin 组件插件
type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// RoutePlugin HTTP路由插件
type RoutePlugin interface {
	Name() string
	RegisterRoutes(engine *gin.Engine, deps *Dependencies)
}

var (
	mu                sync.Mutex
	resourcePlugins   []ResourcePlugin
	componentPlugins  []ComponentPlugin
	routePlugins      []RoutePlugin
	openedResources   []Resource
	startedComponents []Component
)

// RegisterResourcePlugin 注册资源插件（在init阶段调用）
func RegisterResourcePlugin(p ResourcePlugin) {
	mu.Lock()
	defer mu.Unlock()
	resourcePlugins = append(resourcePlugins, p)
}

// RegisterComponentPlugin 注册组件插件（在init阶段调用）
func RegisterComponentPlugin(p ComponentPlugin) {
	mu.Lock()
	defer mu.Unlock()
	componentPlugins = append(componentPlugins, p)
}

// RegisterRoutePlugin 注册路由插件（在init阶段调用）
func RegisterRoutePlugin(p RoutePlugin) {
	mu.Lock()
	defer mu.Unlock()
	routePlugins = append(routePlugins, p)
}

// MustInitResources 按注册顺序打开所有资源，失败直接panic
func MustInitResources() {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range resourcePlugins {
		logger.Infof("Opening resource name=%s", p.Name())
		r := p.MustCreateResource()
		r.MustOpen()
		openedResources = append(openedResources, r)
	}
}

// CloseResources 按注册逆序关闭所有资源
func CloseResources() {
	mu.Lock()
	defer mu.Unlock()
	for i := len(openedResources) - 1; i >= 0; i-- {
		openedResources[i].Close()
	}
	openedResources = nil
}

// MustInitComponents 创建并启动所有组件
func MustInitComponents(deps *Dependencies) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range componentPlugins {
		c := p.MustCreateComponent(deps)
		if err := c.Start(); err != nil {
			panic("failed to start component " + c.GetName() + ": " + err.Error())
		}
		logger.Infof("Component started name=%s", c.GetName())
		startedComponents = append(startedComponents, c)
	}
}

// Shutdown 按启动逆序停止所有组件
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	for i := len(startedComponents) - 1; i >= 0; i-- {
		c := startedComponents[i]
		if err := c.Stop(); err != nil {
			logger.Warnf("Component stop failed name=%s error=%v", c.GetName(), err)
		}
	}
	startedComponents = nil
}

// RegisterAllRoutes 注册所有HTTP路由
func RegisterAllRoutes(engine *gin.Engine, deps *Dependencies) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range routePlugins {
		p.RegisterRoutes(engine, deps)
		logger.Infof("Routes registered name=%s", p.Name())
	}
}

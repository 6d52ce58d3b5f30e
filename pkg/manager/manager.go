package manager

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"videogen-service/pkg/config"
	"videogen-service/pkg/logger"
)

// Resource 外部资源（数据库、缓存、消息队列等）的生命周期抽象
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin 资源插件，在init阶段注册
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Component 长生命周期组件（consumer、worker等）
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

// Dependencies 依赖注入容器
type Dependencies struct {
	DB                 *gorm.DB
	Config             *config.Config
	PipelineAppService interface{}
}

type registries struct {
	mu               sync.Mutex
	resourcePlugins  []ResourcePlugin
	componentPlugins []ComponentPlugin
	routePlugins     []RoutePlugin
	resources        []Resource
	components       []Component
	deps             *Dependencies
}

var global = &registries{}

// RegisterResourcePlugin 注册资源插件
func RegisterResourcePlugin(p ResourcePlugin) {
	if p == nil {
		return
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.resourcePlugins = append(global.resourcePlugins, p)
}

// RegisterComponentPlugin 注册组件插件
func RegisterComponentPlugin(p ComponentPlugin) {
	if p == nil {
		return
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.componentPlugins = append(global.componentPlugins, p)
}

// RegisterRoutePlugin 注册路由插件
func RegisterRoutePlugin(p RoutePlugin) {
	if p == nil {
		return
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.routePlugins = append(global.routePlugins, p)
}

// MustInitResources 初始化所有资源，失败直接panic
func MustInitResources() {
	global.mu.Lock()
	defer global.mu.Unlock()
	for _, p := range global.resourcePlugins {
		logger.Infof("Opening resource %s", p.Name())
		r := p.MustCreateResource()
		r.MustOpen()
		global.resources = append(global.resources, r)
	}
}

// CloseResources 逆序关闭所有资源
func CloseResources() {
	global.mu.Lock()
	defer global.mu.Unlock()
	for i := len(global.resources) - 1; i >= 0; i-- {
		global.resources[i].Close()
	}
	global.resources = nil
}

// MustInitComponents 创建并启动所有组件
func MustInitComponents(deps *Dependencies) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.deps = deps
	for _, p := range global.componentPlugins {
		c := p.MustCreateComponent(deps)
		if c == nil {
			continue
		}
		if err := c.Start(); err != nil {
			panic(fmt.Sprintf("failed to start component %s: %v", p.Name(), err))
		}
		logger.Infof("Component started name=%s", c.GetName())
		global.components = append(global.components, c)
	}
}

// RegisterAllRoutes 应用所有路由插件
func RegisterAllRoutes(engine *gin.Engine) {
	global.mu.Lock()
	defer global.mu.Unlock()
	for _, p := range global.routePlugins {
		p.RegisterRoutes(engine, global.deps)
		logger.Infof("Routes registered plugin=%s", p.Name())
	}
}

// Shutdown 逆序停止所有组件
func Shutdown() {
	global.mu.Lock()
	defer global.mu.Unlock()
	for i := len(global.components) - 1; i >= 0; i-- {
		c := global.components[i]
		if err := c.Stop(); err != nil {
			logger.Warnf("Component stop error name=%s error=%v", c.GetName(), err)
		}
	}
	global.components = nil
}

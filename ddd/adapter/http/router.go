package http

import (
	"github.com/gin-gonic/gin"

	"videogen-service/ddd/application/app"
	"videogen-service/pkg/config"
	"videogen-service/pkg/manager"
	"videogen-service/pkg/middleware"
)

func init() {
	manager.RegisterRoutePlugin(&PipelineRoutePlugin{})
}

// PipelineRoutePlugin 任务流水线HTTP路由
type PipelineRoutePlugin struct{}

func (p *PipelineRoutePlugin) Name() string {
	return "pipelineRoutes"
}

func (p *PipelineRoutePlugin) RegisterRoutes(engine *gin.Engine, deps *manager.Dependencies) {
	var pipelineApp app.PipelineApp
	if deps != nil {
		if v, ok := deps.PipelineAppService.(app.PipelineApp); ok {
			pipelineApp = v
		}
	}
	if pipelineApp == nil {
		pipelineApp = app.DefaultPipelineApp()
	}

	jwtSecret := ""
	cfg := config.GetGlobalConfig()
	if deps != nil && deps.Config != nil {
		cfg = deps.Config
	}
	if cfg != nil {
		jwtSecret = cfg.JWT.Secret
	}

	controller := NewPipelineController(pipelineApp)

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.JWTAuthMiddleware(jwtSecret))
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", controller.SubmitJob)                  // 提交任务
			jobs.GET("", controller.ListJobs)                    // 任务列表
			jobs.GET("/:job_id", controller.GetJob)              // 任务详情
			jobs.GET("/:job_id/status", controller.GetJobStatus) // 在途状态
			jobs.DELETE("/:job_id", controller.CancelJob)        // 取消任务
		}
	}
}

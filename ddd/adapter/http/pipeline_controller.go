package http

import (
	"github.com/gin-gonic/gin"

	"videogen-service/ddd/application/app"
	"videogen-service/ddd/application/cqe"
	"videogen-service/pkg/middleware"
	"videogen-service/pkg/restapi"
)

// PipelineController 视频生成任务控制器
type PipelineController struct {
	pipelineApp app.PipelineApp
}

// NewPipelineController 创建控制器
func NewPipelineController(pipelineApp app.PipelineApp) *PipelineController {
	return &PipelineController{pipelineApp: pipelineApp}
}

// SubmitJob 提交视频生成任务
func (c *PipelineController) SubmitJob(ctx *gin.Context) {
	var req cqe.SubmitJobReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.pipelineApp.SubmitJob(ctx.Request.Context(), &req, middleware.UserUUID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetJob 获取任务详情
func (c *PipelineController) GetJob(ctx *gin.Context) {
	var req cqe.GetJobReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.pipelineApp.GetJob(ctx.Request.Context(), req.JobUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetJobStatus 获取任务在途状态
func (c *PipelineController) GetJobStatus(ctx *gin.Context) {
	var req cqe.GetJobReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.pipelineApp.GetJobStatus(ctx.Request.Context(), req.JobUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListJobs 列出任务
func (c *PipelineController) ListJobs(ctx *gin.Context) {
	var req cqe.ListJobsReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.pipelineApp.ListJobs(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// CancelJob 取消任务
func (c *PipelineController) CancelJob(ctx *gin.Context) {
	var req cqe.CancelJobReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if err := c.pipelineApp.CancelJob(ctx.Request.Context(), req.JobUUID); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"job_uuid": req.JobUUID})
}

package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"videogen-service/ddd/domain/repo"
	"videogen-service/ddd/domain/vo"
	"videogen-service/ddd/infrastructure/database/persistence"
	"videogen-service/ddd/infrastructure/queue"
	"videogen-service/internal/resource"
	"videogen-service/pkg/assert"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

var (
	singleCoordinator *PipelineCoordinator
	onceCoordinator   sync.Once
)

// PipelineCoordinator 订阅阶段事件并推进流水线: 完成则入队下一阶段,
// 渲染完成则关闭任务行, 失败则按是否终局落状态。取消过的任务不复活。
type PipelineCoordinator struct {
	jobRepo    repo.JobRepository
	stageQueue queue.StageQueue
	bus        *queue.EventBus
}

// DefaultPipelineCoordinator 获取协调器单例
func DefaultPipelineCoordinator() *PipelineCoordinator {
	assert.NotCircular()
	onceCoordinator.Do(func() {
		singleCoordinator = NewPipelineCoordinator(
			persistence.NewJobRepository(resource.DefaultMysqlResource().MainDB()),
			queue.DefaultStageQueue(),
			queue.DefaultEventBus(),
		)
	})
	assert.NotNil(singleCoordinator)
	return singleCoordinator
}

func NewPipelineCoordinator(jobRepo repo.JobRepository, stageQueue queue.StageQueue, bus *queue.EventBus) *PipelineCoordinator {
	return &PipelineCoordinator{
		jobRepo:    jobRepo,
		stageQueue: stageQueue,
		bus:        bus,
	}
}

// Register 挂上事件监听, 进程生命周期内调用一次
func (c *PipelineCoordinator) Register() {
	c.bus.OnCompleted(c.onCompleted)
	c.bus.OnFailed(c.onFailed)
	c.bus.OnProgress(c.onProgress)
}

func (c *PipelineCoordinator) onCompleted(ctx context.Context, ev queue.CompletedEvent) {
	job, err := c.jobRepo.GetJobByUUID(ctx, ev.JobUUID)
	if err != nil {
		logger.Errorf("Completed event for unknown job %s stage=%s: %v", ev.JobUUID, ev.Stage, err)
		return
	}

	// 取消竞争窗口: 阶段跑完的瞬间用户已经取消, 不入队下一阶段
	if job.Status() == vo.StatusDeleted {
		logger.Info("Skip advancing cancelled job", map[string]interface{}{
			"job_uuid": ev.JobUUID,
			"stage":    ev.Stage.String(),
		})
		return
	}

	if ev.Stage == vo.StepRender {
		job.Complete(ev.Payload.RenderedFiles)
		if err := c.jobRepo.UpdateJob(ctx, job); err != nil {
			logger.Errorf("Failed to close job %s: %v", ev.JobUUID, err)
		}
		logger.Info("Job completed", map[string]interface{}{
			"job_uuid": ev.JobUUID,
			"files":    len(ev.Payload.RenderedFiles),
		})
		return
	}

	next, ok := ev.Stage.Next()
	if !ok {
		logger.Errorf("No successor stage for %s, job %s stuck", ev.Stage, ev.JobUUID)
		return
	}
	view := job.StatusView()
	view.Step = next
	view.Status = vo.StatusInProgress
	view.Percentage = 0
	if err := c.jobRepo.UpdateJobStatus(ctx, ev.JobUUID, view); err != nil {
		logger.Errorf("Failed to advance job %s to %s: %v", ev.JobUUID, next, err)
		return
	}

	if err := c.stageQueue.Enqueue(ctx, &queue.StageItem{
		JobUUID:    ev.JobUUID,
		Stage:      next,
		PayloadURL: ev.PayloadURL,
		EnqueuedAt: time.Now(),
	}); err != nil {
		logger.Errorf("Failed to enqueue job %s stage %s: %v", ev.JobUUID, next, err)
		view.Status = vo.StatusFailed
		if uerr := c.jobRepo.UpdateJobStatus(ctx, ev.JobUUID, view); uerr != nil {
			logger.Errorf("Failed to record enqueue failure for job %s: %v", ev.JobUUID, uerr)
		}
		return
	}

	logger.Info("Job advanced", map[string]interface{}{
		"job_uuid": ev.JobUUID,
		"from":     ev.Stage.String(),
		"to":       next.String(),
	})
}

func (c *PipelineCoordinator) onFailed(ctx context.Context, ev queue.FailedEvent) {
	if errors.Is(ev.Err, errno.ErrJobCancelled) {
		// CancelJob已落了deleted, 这里只确认
		logger.Info("Stage aborted by cancellation", map[string]interface{}{
			"job_uuid": ev.JobUUID,
			"stage":    ev.Stage.String(),
		})
		return
	}

	if !ev.Final {
		logger.Warnf("Stage %s failed for job %s, will retry: %v", ev.Stage, ev.JobUUID, ev.Err)
		return
	}

	job, err := c.jobRepo.GetJobByUUID(ctx, ev.JobUUID)
	if err != nil {
		logger.Errorf("Failed event for unknown job %s: %v", ev.JobUUID, err)
		return
	}
	if job.Status().IsFinal() {
		return
	}
	job.SetStatus(vo.StatusFailed)
	if err := c.jobRepo.UpdateJobStatus(ctx, ev.JobUUID, job.StatusView()); err != nil {
		logger.Errorf("Failed to record failure for job %s: %v", ev.JobUUID, err)
	}
	logger.Error("Job failed", map[string]interface{}{
		"job_uuid": ev.JobUUID,
		"stage":    ev.Stage.String(),
		"error":    ev.Err.Error(),
	})
}

func (c *PipelineCoordinator) onProgress(ctx context.Context, ev queue.ProgressEvent) {
	job, err := c.jobRepo.GetJobByUUID(ctx, ev.JobUUID)
	if err != nil {
		return
	}
	if job.Status().IsFinal() || job.Step() != ev.Stage {
		return
	}
	job.SetProgress(ev.Percentage)
	if err := c.jobRepo.UpdateJobStatus(ctx, ev.JobUUID, job.StatusView()); err != nil {
		logger.Warnf("Failed to record progress for job %s: %v", ev.JobUUID, err)
	}
}

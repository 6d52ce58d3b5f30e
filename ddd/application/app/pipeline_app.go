package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"videogen-service/ddd/application/cqe"
	"videogen-service/ddd/application/dto"
	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/repo"
	"videogen-service/ddd/domain/vo"
	"videogen-service/ddd/infrastructure/database/persistence"
	"videogen-service/ddd/infrastructure/queue"
	"videogen-service/ddd/infrastructure/storage"
	"videogen-service/internal/resource"
	"videogen-service/pkg/assert"
	"videogen-service/pkg/config"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

var (
	singlePipelineApp PipelineApp
	oncePipelineApp   sync.Once
)

// PipelineApp 视频生成流水线的应用服务
type PipelineApp interface {
	// SubmitJob 提交任务: 建行, 写入初版载荷, 入队第一个阶段
	SubmitJob(ctx context.Context, req *cqe.SubmitJobReq, userUUID string) (*dto.JobDto, error)
	// GetJob 获取任务详情
	GetJob(ctx context.Context, jobUUID string) (*dto.JobDto, error)
	// GetJobStatus 获取任务在途状态
	GetJobStatus(ctx context.Context, jobUUID string) (*dto.JobStatusDto, error)
	// ListJobs 列出任务
	ListJobs(ctx context.Context, req *cqe.ListJobsReq) (*dto.JobListDto, error)
	// CancelJob 取消任务: 置终态deleted, 给当前阶段的队列项打取消标记
	CancelJob(ctx context.Context, jobUUID string) error
}

type pipelineAppImpl struct {
	jobRepo     repo.JobRepository
	payloads    gateway.PayloadStore
	stageQueue  queue.StageQueue
	scriptLimit int
}

// DefaultPipelineApp 获取应用服务单例
func DefaultPipelineApp() PipelineApp {
	assert.NotCircular()
	oncePipelineApp.Do(func() {
		cfg := config.GetGlobalConfig()
		storageGateway := storage.NewMinioStorage(resource.DefaultMinioResource(), cfg.Public.StorageBase)
		singlePipelineApp = NewPipelineAppWith(
			persistence.NewJobRepository(resource.DefaultMysqlResource().MainDB()),
			storage.NewObjectPayloadStore(storageGateway),
			queue.DefaultStageQueue(),
			cfg.Pipeline.ScriptLimit,
		)
	})
	assert.NotNil(singlePipelineApp)
	return singlePipelineApp
}

func NewPipelineAppWith(jobRepo repo.JobRepository, payloads gateway.PayloadStore, stageQueue queue.StageQueue, scriptLimit int) PipelineApp {
	if scriptLimit <= 0 {
		scriptLimit = 10000
	}
	return &pipelineAppImpl{
		jobRepo:     jobRepo,
		payloads:    payloads,
		stageQueue:  stageQueue,
		scriptLimit: scriptLimit,
	}
}

func (a *pipelineAppImpl) SubmitJob(ctx context.Context, req *cqe.SubmitJobReq, userUUID string) (*dto.JobDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Script) > a.scriptLimit {
		return nil, errno.ErrScriptTooLong
	}

	job := entity.NewJobEntity(req.Script, req.ProjectUUID, req.CompanyUUID, userUUID)
	if err := a.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	images := make([]vo.ImageUpload, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, vo.ImageUpload{Name: img.Name, URL: img.URL})
	}
	payload := &vo.JobPayload{
		JobUUID:     job.JobUUID(),
		Script:      req.Script,
		UserUUID:    userUUID,
		ProjectUUID: req.ProjectUUID,
		CompanyUUID: req.CompanyUUID,
		Images:      images,
	}
	payloadURL, err := a.payloads.UploadPayload(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("store initial payload: %w", err)
	}

	first := vo.FirstStage()
	if err := a.stageQueue.Enqueue(ctx, &queue.StageItem{
		JobUUID:    job.JobUUID(),
		Stage:      first,
		PayloadURL: payloadURL,
		EnqueuedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", first, err)
	}

	job.SetStep(first)
	if err := a.jobRepo.UpdateJobStatus(ctx, job.JobUUID(), job.StatusView()); err != nil {
		logger.Warnf("Failed to record first stage for job %s: %v", job.JobUUID(), err)
	}

	logger.Info("Job submitted", map[string]interface{}{
		"job_uuid": job.JobUUID(),
		"images":   len(images),
	})
	return dto.NewJobDto(job), nil
}

func (a *pipelineAppImpl) GetJob(ctx context.Context, jobUUID string) (*dto.JobDto, error) {
	job, err := a.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return nil, err
	}
	return dto.NewJobDto(job), nil
}

func (a *pipelineAppImpl) GetJobStatus(ctx context.Context, jobUUID string) (*dto.JobStatusDto, error) {
	job, err := a.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return nil, err
	}
	return dto.NewJobStatusDto(job), nil
}

func (a *pipelineAppImpl) ListJobs(ctx context.Context, req *cqe.ListJobsReq) (*dto.JobListDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	offset := (req.Page - 1) * req.Size
	jobs, err := a.jobRepo.ListJobs(ctx, req.ProjectUUID, req.CompanyUUID, req.Size, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewJobListDto(jobs, req.Page, req.Size), nil
}

func (a *pipelineAppImpl) CancelJob(ctx context.Context, jobUUID string) error {
	job, err := a.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return err
	}
	if job.Status().IsFinal() {
		return errno.ErrJobAlreadyDone
	}

	job.MarkDeleted()
	if err := a.jobRepo.UpdateJobStatus(ctx, jobUUID, job.StatusView()); err != nil {
		return fmt.Errorf("mark job deleted: %w", err)
	}

	// 终态先落库, 再打取消标记; 正在执行的处理器在下一个检查点看到标记后中止
	if job.Step().IsStage() {
		if err := a.stageQueue.SetCancelled(ctx, job.Step(), jobUUID); err != nil {
			logger.Warnf("Failed to flag cancelled item job=%s stage=%s: %v", jobUUID, job.Step(), err)
		}
	}

	logger.Info("Job cancelled", map[string]interface{}{
		"job_uuid": jobUUID,
		"stage":    job.Step().String(),
	})
	return nil
}

package repo

import (
	"context"

	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/vo"
)

// JobRepository 任务仓储接口, 关联键(jobUUID)是所有阶段共用的查找键
type JobRepository interface {
	// CreateJob 创建任务行
	CreateJob(ctx context.Context, job *entity.JobEntity) error
	// GetJobByUUID 按关联键查找, 未找到返回errno.ErrJobNotFound
	GetJobByUUID(ctx context.Context, jobUUID string) (*entity.JobEntity, error)
	// UpdateJob 整行写回
	UpdateJob(ctx context.Context, job *entity.JobEntity) error
	// UpdateJobStatus 整体写回在途状态视图
	UpdateJobStatus(ctx context.Context, jobUUID string, status vo.JobStatus) error
	// ListJobs 按project/company过滤列出任务, 空串表示不过滤
	ListJobs(ctx context.Context, projectUUID, companyUUID string, limit, offset int) ([]*entity.JobEntity, error)
}

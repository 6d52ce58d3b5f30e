package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/repo"
	"videogen-service/ddd/domain/vo"
	"videogen-service/ddd/infrastructure/database/convertor"
	"videogen-service/ddd/infrastructure/database/dao"
	"videogen-service/pkg/errno"
)

// jobRepositoryImpl 任务仓储实现
type jobRepositoryImpl struct {
	jobDao    *dao.JobDAO
	convertor *convertor.JobConvertor
}

// NewJobRepository 创建任务仓储实现
func NewJobRepository(db *gorm.DB) repo.JobRepository {
	return &jobRepositoryImpl{
		jobDao:    dao.NewJobDAO(db),
		convertor: convertor.NewJobConvertor(),
	}
}

func (r *jobRepositoryImpl) CreateJob(ctx context.Context, job *entity.JobEntity) error {
	jobPo, err := r.convertor.EntityToPO(job)
	if err != nil {
		return fmt.Errorf("convert entity to po: %w", err)
	}
	return r.jobDao.Create(ctx, jobPo)
}

func (r *jobRepositoryImpl) GetJobByUUID(ctx context.Context, jobUUID string) (*entity.JobEntity, error) {
	jobPo, err := r.jobDao.FindByJobUUID(ctx, jobUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrJobNotFound
		}
		return nil, err
	}
	return r.convertor.POToEntity(jobPo)
}

func (r *jobRepositoryImpl) UpdateJob(ctx context.Context, job *entity.JobEntity) error {
	jobPo, err := r.convertor.EntityToPO(job)
	if err != nil {
		return fmt.Errorf("convert entity to po: %w", err)
	}
	return r.jobDao.Update(ctx, jobPo)
}

func (r *jobRepositoryImpl) UpdateJobStatus(ctx context.Context, jobUUID string, status vo.JobStatus) error {
	files := "[]"
	if len(status.Files) > 0 {
		data, err := status.Files.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode files: %w", err)
		}
		files = string(data)
	}
	return r.jobDao.UpdateStatusView(ctx, jobUUID, status.Step.String(), string(status.Status), status.Percentage, files)
}

func (r *jobRepositoryImpl) ListJobs(ctx context.Context, projectUUID, companyUUID string, limit, offset int) ([]*entity.JobEntity, error) {
	poList, err := r.jobDao.List(ctx, projectUUID, companyUUID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.convertor.POListToEntityList(poList)
}

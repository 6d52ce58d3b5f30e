package dao

import (
	"context"

	"gorm.io/gorm"

	"videogen-service/ddd/infrastructure/database/po"
	"videogen-service/pkg/logger"
)

// JobDAO 任务数据访问对象
type JobDAO struct {
	db *gorm.DB
}

// NewJobDAO 创建任务DAO实例
func NewJobDAO(db *gorm.DB) *JobDAO {
	return &JobDAO{db: db}
}

// Create 创建任务行
func (d *JobDAO) Create(ctx context.Context, jobPo *po.JobPO) error {
	if err := d.db.WithContext(ctx).Create(jobPo).Error; err != nil {
		logger.Errorf("Error creating job %v", err)
		return err
	}
	return nil
}

// FindByJobUUID 按关联键查询, 未找到透传gorm.ErrRecordNotFound
func (d *JobDAO) FindByJobUUID(ctx context.Context, jobUUID string) (*po.JobPO, error) {
	var job po.JobPO
	if err := d.db.WithContext(ctx).
		Where("job_uuid = ?", jobUUID).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Update 整行写回
func (d *JobDAO) Update(ctx context.Context, jobPo *po.JobPO) error {
	if err := d.db.WithContext(ctx).Save(jobPo).Error; err != nil {
		logger.Errorf("Error updating job %v", err)
		return err
	}
	return nil
}

// UpdateStatusView 更新在途状态字段
func (d *JobDAO) UpdateStatusView(ctx context.Context, jobUUID, step, status string, progress int, files string) error {
	update := map[string]interface{}{
		"step":     step,
		"status":   status,
		"progress": progress,
		"files":    files,
	}
	if err := d.db.WithContext(ctx).
		Model(&po.JobPO{}).
		Where("job_uuid = ?", jobUUID).
		Updates(update).Error; err != nil {
		logger.Errorf("Error updating job status %v", err)
		return err
	}
	return nil
}

// List 按project/company过滤列出任务, 空串表示不过滤
func (d *JobDAO) List(ctx context.Context, projectUUID, companyUUID string, limit, offset int) ([]*po.JobPO, error) {
	var jobs []*po.JobPO
	query := d.db.WithContext(ctx).Model(&po.JobPO{}).Order("created_at DESC")
	if projectUUID != "" {
		query = query.Where("project_uuid = ?", projectUUID)
	}
	if companyUUID != "" {
		query = query.Where("company_uuid = ?", companyUUID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&jobs).Error; err != nil {
		logger.Errorf("Error listing jobs %v", err)
		return nil, err
	}
	return jobs, nil
}

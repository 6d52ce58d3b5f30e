package convertor

import (
	"encoding/json"
	"fmt"

	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/vo"
	"videogen-service/ddd/infrastructure/database/po"
)

// JobConvertor 实体与持久化对象互转
type JobConvertor struct{}

func NewJobConvertor() *JobConvertor {
	return &JobConvertor{}
}

// EntityToPO 实体转持久化对象
func (c *JobConvertor) EntityToPO(job *entity.JobEntity) (*po.JobPO, error) {
	files, err := encodeFiles(job.Files())
	if err != nil {
		return nil, err
	}
	return &po.JobPO{
		ID:          job.ID(),
		JobUUID:     job.JobUUID(),
		Script:      job.Script(),
		Step:        job.Step().String(),
		Status:      string(job.Status()),
		Progress:    job.Progress(),
		Files:       files,
		ProjectUUID: job.ProjectUUID(),
		CompanyUUID: job.CompanyUUID(),
		UserUUID:    job.UserUUID(),
		CreatedAt:   job.CreatedAt(),
		UpdatedAt:   job.UpdatedAt(),
	}, nil
}

// POToEntity 持久化对象转实体
func (c *JobConvertor) POToEntity(jobPo *po.JobPO) (*entity.JobEntity, error) {
	files, err := decodeFiles(jobPo.Files)
	if err != nil {
		return nil, fmt.Errorf("job %s files column: %w", jobPo.JobUUID, err)
	}
	return entity.RestoreJobEntity(
		jobPo.ID,
		jobPo.JobUUID,
		jobPo.Script,
		vo.Step(jobPo.Step),
		vo.Status(jobPo.Status),
		jobPo.Progress,
		files,
		jobPo.ProjectUUID,
		jobPo.CompanyUUID,
		jobPo.UserUUID,
		jobPo.CreatedAt,
		jobPo.UpdatedAt,
	), nil
}

// POListToEntityList 批量转换
func (c *JobConvertor) POListToEntityList(poList []*po.JobPO) ([]*entity.JobEntity, error) {
	out := make([]*entity.JobEntity, 0, len(poList))
	for _, p := range poList {
		e, err := c.POToEntity(p)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func encodeFiles(files vo.FileList) (string, error) {
	if len(files) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(files)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeFiles(raw string) (vo.FileList, error) {
	if raw == "" {
		return nil, nil
	}
	var files vo.FileList
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, err
	}
	return files, nil
}

package dto

import (
	"time"

	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/vo"
)

// JobDto 任务数据传输对象
type JobDto struct {
	JobUUID     string      `json:"job_uuid"`
	Script      string      `json:"script"`
	Step        string      `json:"step"`
	Status      string      `json:"status"`
	Percentage  int         `json:"percentage"`
	Files       vo.FileList `json:"files"`
	ProjectUUID string      `json:"project_uuid,omitempty"`
	CompanyUUID string      `json:"company_uuid,omitempty"`
	UserUUID    string      `json:"user_uuid,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// JobStatusDto 任务在途状态数据传输对象
type JobStatusDto struct {
	JobUUID    string      `json:"job_uuid"`
	Step       string      `json:"step"`
	Status     string      `json:"status"`
	Percentage int         `json:"percentage"`
	Files      vo.FileList `json:"files"`
}

// JobListDto 任务列表数据传输对象
type JobListDto struct {
	Jobs []JobDto `json:"jobs"`
	Page int      `json:"page"`
	Size int      `json:"size"`
}

// NewJobDto 从实体创建DTO
func NewJobDto(job *entity.JobEntity) *JobDto {
	if job == nil {
		return nil
	}
	return &JobDto{
		JobUUID:     job.JobUUID(),
		Script:      job.Script(),
		Step:        job.Step().String(),
		Status:      string(job.Status()),
		Percentage:  job.Progress(),
		Files:       job.Files(),
		ProjectUUID: job.ProjectUUID(),
		CompanyUUID: job.CompanyUUID(),
		UserUUID:    job.UserUUID(),
		CreatedAt:   job.CreatedAt(),
		UpdatedAt:   job.UpdatedAt(),
	}
}

// NewJobStatusDto 从实体创建在途状态DTO
func NewJobStatusDto(job *entity.JobEntity) *JobStatusDto {
	if job == nil {
		return nil
	}
	view := job.StatusView()
	return &JobStatusDto{
		JobUUID:    job.JobUUID(),
		Step:       view.Step.String(),
		Status:     string(view.Status),
		Percentage: view.Percentage,
		Files:      view.Files,
	}
}

// NewJobListDto 创建任务列表DTO
func NewJobListDto(jobs []*entity.JobEntity, page, size int) *JobListDto {
	out := make([]JobDto, 0, len(jobs))
	for _, job := range jobs {
		if d := NewJobDto(job); d != nil {
			out = append(out, *d)
		}
	}
	return &JobListDto{Jobs: out, Page: page, Size: size}
}

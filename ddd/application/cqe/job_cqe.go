package cqe

import "videogen-service/pkg/errno"

// ImageUploadReq 提交时随脚本登记的图片
type ImageUploadReq struct {
	Name string `json:"name" binding:"required"` // 脚本里标记的图片名
	URL  string `json:"url" binding:"required"`  // 已上传的图片URL
}

// SubmitJobReq 提交视频生成任务请求
type SubmitJobReq struct {
	Script      string           `json:"script" binding:"required"` // 口播脚本
	ProjectUUID string           `json:"project_uuid"`              // 所属项目
	CompanyUUID string           `json:"company_uuid"`              // 所属公司
	Images      []ImageUploadReq `json:"images"`                    // 脚本引用的图片
}

func (req *SubmitJobReq) Validate() error {
	if req.Script == "" {
		return errno.ErrMissingParam
	}
	for _, img := range req.Images {
		if img.Name == "" || img.URL == "" {
			return errno.ErrInvalidParam
		}
	}
	return nil
}

// GetJobReq 查询任务请求
type GetJobReq struct {
	JobUUID string `uri:"job_id" binding:"required"`
}

func (req *GetJobReq) Validate() error {
	if req.JobUUID == "" {
		return errno.ErrJobUUIDRequired
	}
	return nil
}

// CancelJobReq 取消任务请求
type CancelJobReq struct {
	JobUUID string `uri:"job_id" binding:"required"`
}

func (req *CancelJobReq) Validate() error {
	if req.JobUUID == "" {
		return errno.ErrJobUUIDRequired
	}
	return nil
}

// ListJobsReq 列表请求
type ListJobsReq struct {
	ProjectUUID string `form:"project_uuid"`
	CompanyUUID string `form:"company_uuid"`
	Page        int    `form:"page"`
	Size        int    `form:"size"`
}

func (req *ListJobsReq) Validate() error {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 10
	}
	return nil
}

package entity

import (
	"time"

	"github.com/google/uuid"

	"videogen-service/ddd/domain/vo"
)

// JobEntity 视频生成任务, jobUUID是贯穿所有阶段的关联键
type JobEntity struct {
	id          uint64
	jobUUID     string
	script      string
	step        vo.Step
	status      vo.Status
	progress    int
	files       vo.FileList
	projectUUID string
	companyUUID string
	userUUID    string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewJobEntity 创建新任务, 生成关联键
func NewJobEntity(script, projectUUID, companyUUID, userUUID string) *JobEntity {
	now := time.Now()
	return &JobEntity{
		jobUUID:     uuid.NewString(),
		script:      script,
		step:        vo.StepNone,
		status:      vo.StatusPending,
		progress:    0,
		projectUUID: projectUUID,
		companyUUID: companyUUID,
		userUUID:    userUUID,
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreJobEntity 从持久化数据重建实体
func RestoreJobEntity(id uint64, jobUUID, script string, step vo.Step, status vo.Status, progress int, files vo.FileList, projectUUID, companyUUID, userUUID string, createdAt, updatedAt time.Time) *JobEntity {
	return &JobEntity{
		id:          id,
		jobUUID:     jobUUID,
		script:      script,
		step:        step,
		status:      status,
		progress:    progress,
		files:       files,
		projectUUID: projectUUID,
		companyUUID: companyUUID,
		userUUID:    userUUID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e *JobEntity) ID() uint64           { return e.id }
func (e *JobEntity) JobUUID() string      { return e.jobUUID }
func (e *JobEntity) Script() string       { return e.script }
func (e *JobEntity) Step() vo.Step        { return e.step }
func (e *JobEntity) Status() vo.Status    { return e.status }
func (e *JobEntity) Progress() int        { return e.progress }
func (e *JobEntity) Files() vo.FileList   { return e.files }
func (e *JobEntity) ProjectUUID() string  { return e.projectUUID }
func (e *JobEntity) CompanyUUID() string  { return e.companyUUID }
func (e *JobEntity) UserUUID() string     { return e.userUUID }
func (e *JobEntity) CreatedAt() time.Time { return e.createdAt }
func (e *JobEntity) UpdatedAt() time.Time { return e.updatedAt }

// StatusView 返回任务的在途状态视图
func (e *JobEntity) StatusView() vo.JobStatus {
	return vo.JobStatus{
		Step:       e.step,
		Status:     e.status,
		Percentage: e.progress,
		Files:      e.files,
	}
}

// ApplyStatus 整体写回在途状态视图
func (e *JobEntity) ApplyStatus(st vo.JobStatus) {
	e.step = st.Step
	e.status = st.Status
	e.progress = clampProgress(st.Percentage)
	e.files = st.Files
	e.updatedAt = time.Now()
}

func (e *JobEntity) SetStep(step vo.Step) {
	e.step = step
	e.updatedAt = time.Now()
}

func (e *JobEntity) SetStatus(status vo.Status) {
	e.status = status
	e.updatedAt = time.Now()
}

func (e *JobEntity) SetProgress(p int) {
	e.progress = clampProgress(p)
	e.updatedAt = time.Now()
}

// AppendFile 登记一个产出文件, 同名label原位覆盖
func (e *JobEntity) AppendFile(label, url string) {
	e.files = e.files.Append(label, url)
	e.updatedAt = time.Now()
}

// MarkDeleted 用户取消, 终态
func (e *JobEntity) MarkDeleted() {
	e.status = vo.StatusDeleted
	e.progress = 0
	e.updatedAt = time.Now()
}

// Complete 渲染阶段收尾时调用, 关闭任务行
func (e *JobEntity) Complete(files vo.FileList) {
	e.step = vo.StepCompleted
	e.status = vo.StatusCompleted
	e.progress = 100
	for _, f := range files {
		e.files = e.files.Append(f.Label, f.URL)
	}
	e.updatedAt = time.Now()
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

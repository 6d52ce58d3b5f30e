package gateway

import "context"

// MusicJobState 远端配乐任务状态
type MusicJobState string

const (
	MusicJobRunning   MusicJobState = "running"
	MusicJobCompleted MusicJobState = "completed"
	MusicJobFailed    MusicJobState = "failed"
)

// MusicRequest 配乐生成请求, 载荷契约由后端定义, 这里原样传递
type MusicRequest struct {
	JobUUID    string `json:"job_uuid"`
	Script     string `json:"script"`
	DurationMs int64  `json:"duration_ms"`
}

// MusicJobStatus 轮询结果
type MusicJobStatus struct {
	State    MusicJobState `json:"state"`
	TrackURL string        `json:"track_url,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// MusicComposer 配乐后端, 提交后轮询直到终态
type MusicComposer interface {
	SubmitJob(ctx context.Context, req *MusicRequest) (string, error)
	GetJobStatus(ctx context.Context, jobRef string) (*MusicJobStatus, error)
}

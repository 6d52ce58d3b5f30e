package vo

import (
	"encoding/json"
	"fmt"
)

// Status 任务状态, 持久化行和在途状态共用同一枚举
type Status string

const (
	// StatusPending 待处理
	StatusPending Status = "pending"
	// StatusInProgress 处理中
	StatusInProgress Status = "in_progress"
	// StatusCompleted 已完成
	StatusCompleted Status = "completed"
	// StatusFailed 失败
	StatusFailed Status = "failed"
	// StatusDeleted 已删除(用户取消), 终态, 队列项不得重试
	StatusDeleted Status = "deleted"
)

// IsValid 检查状态是否有效
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed, StatusDeleted:
		return true
	default:
		return false
	}
}

// IsFinal 检查是否为终态
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusDeleted
}

// String 返回状态字符串
func (s Status) String() string {
	return string(s)
}

// FileRef names one produced output.
type FileRef struct {
	Label string
	URL   string
}

// FileList is the ordered, append-only list of job outputs. It serializes as an
// array of single-pair objects so label order survives the round trip.
type FileList []FileRef

func (l FileList) MarshalJSON() ([]byte, error) {
	entries := make([]map[string]string, 0, len(l))
	for _, f := range l {
		entries = append(entries, map[string]string{f.Label: f.URL})
	}
	return json.Marshal(entries)
}

func (l *FileList) UnmarshalJSON(data []byte) error {
	var entries []map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	out := make(FileList, 0, len(entries))
	for i, e := range entries {
		if len(e) != 1 {
			return fmt.Errorf("files entry %d: expected exactly one label, got %d", i, len(e))
		}
		for label, url := range e {
			out = append(out, FileRef{Label: label, URL: url})
		}
	}
	*l = out
	return nil
}

// Append returns a new list with the entry added, replacing an existing label in place.
func (l FileList) Append(label, url string) FileList {
	for i, f := range l {
		if f.Label == label {
			out := make(FileList, len(l))
			copy(out, l)
			out[i].URL = url
			return out
		}
	}
	out := make(FileList, len(l), len(l)+1)
	copy(out, l)
	return append(out, FileRef{Label: label, URL: url})
}

// JobStatus 任务的在途状态视图, 每个阶段整读整写
type JobStatus struct {
	Step       Step     `json:"step"`
	Status     Status   `json:"status"`
	Percentage int      `json:"percentage"`
	Files      FileList `json:"files"`
}

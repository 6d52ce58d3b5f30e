package queue

import (
	"context"
	"time"

	"videogen-service/ddd/domain/vo"
)

// StageItem 阶段队列里的一个工作项. JobUUID既是关联键也是队列项的身份,
// 所有阶段用同一个键查找同一个任务。
type StageItem struct {
	JobUUID    string    `json:"job_uuid"`
	Stage      vo.Step   `json:"stage"`
	PayloadURL string    `json:"payload_url"`
	Cancelled  bool      `json:"cancelled"`
	Progress   int       `json:"progress"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// StageQueue 持久化阶段队列抽象. 每个阶段一条命名队列, 至少一次投递;
// 工作项携带可变状态(取消标记/进度), 取消是协作式的: 调用方置标记,
// 正在执行的处理器在自己的检查点观察标记并中止。
type StageQueue interface {
	// Enqueue 入队, jobUUID作为队列项身份
	Enqueue(ctx context.Context, item *StageItem) error
	// Dequeue 阻塞出队; 已被移除(取消)的项直接跳过
	Dequeue(ctx context.Context, stage vo.Step) (*StageItem, error)
	// GetItem 读取工作项当前状态, 不存在返回errno.ErrQueueItemMissing
	GetItem(ctx context.Context, stage vo.Step, jobUUID string) (*StageItem, error)
	// SetCancelled 置取消标记
	SetCancelled(ctx context.Context, stage vo.Step, jobUUID string) error
	// ReportProgress 上报队列自身的进度通道(0-100), 独立于持久化的百分比
	ReportProgress(ctx context.Context, stage vo.Step, jobUUID string, pct int) error
	// Remove 移除工作项, 之后不再重试
	Remove(ctx context.Context, stage vo.Step, jobUUID string) error
	// Close 关闭队列
	Close() error
}

package queue

import (
	"context"
	"sync"

	"videogen-service/ddd/domain/vo"
)

// CompletedEvent 阶段完成事件, 携带关联键和该阶段产出的载荷版本URL
type CompletedEvent struct {
	Stage      vo.Step
	JobUUID    string
	PayloadURL string
	Payload    *vo.JobPayload
}

// FailedEvent 阶段失败事件. Err可能是取消哨兵(errno.ErrJobCancelled),
// 监听方用errors.Is区分
type FailedEvent struct {
	Stage   vo.Step
	JobUUID string
	Err     error
	Final   bool
}

// ProgressEvent 阶段进度事件
type ProgressEvent struct {
	Stage      vo.Step
	JobUUID    string
	Percentage int
}

type CompletedListener func(ctx context.Context, ev CompletedEvent)
type FailedListener func(ctx context.Context, ev FailedEvent)
type ProgressListener func(ctx context.Context, ev ProgressEvent)

// EventBus 显式类型化的阶段事件分发. "做完了工作"与"推进流水线"由它解耦,
// 同一套机制同时覆盖直调阶段和轮询阶段。
type EventBus struct {
	mu        sync.RWMutex
	completed []CompletedListener
	failed    []FailedListener
	progress  []ProgressListener
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) OnCompleted(fn CompletedListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = append(b.completed, fn)
}

func (b *EventBus) OnFailed(fn FailedListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = append(b.failed, fn)
}

func (b *EventBus) OnProgress(fn ProgressListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress = append(b.progress, fn)
}

func (b *EventBus) PublishCompleted(ctx context.Context, ev CompletedEvent) {
	b.mu.RLock()
	listeners := make([]CompletedListener, len(b.completed))
	copy(listeners, b.completed)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

func (b *EventBus) PublishFailed(ctx context.Context, ev FailedEvent) {
	b.mu.RLock()
	listeners := make([]FailedListener, len(b.failed))
	copy(listeners, b.failed)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

func (b *EventBus) PublishProgress(ctx context.Context, ev ProgressEvent) {
	b.mu.RLock()
	listeners := make([]ProgressListener, len(b.progress))
	copy(listeners, b.progress)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
)

// MemoryStageQueue 基于内存的阶段队列实现, 用于测试和单进程模式.
// 每个阶段一条带缓冲channel, 工作项状态放map里模拟Redis侧的可变状态。
type MemoryStageQueue struct {
	mu       sync.RWMutex
	queues   map[vo.Step]chan string
	items    map[string]*StageItem
	capacity int
	closed   bool
}

// NewMemoryStageQueue 创建内存阶段队列
func NewMemoryStageQueue(capacity int) *MemoryStageQueue {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStageQueue{
		queues:   make(map[vo.Step]chan string),
		items:    make(map[string]*StageItem),
		capacity: capacity,
	}
}

func (q *MemoryStageQueue) channel(stage vo.Step) chan string {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.queues[stage]
	if !ok {
		ch = make(chan string, q.capacity)
		q.queues[stage] = ch
	}
	return ch
}

func (q *MemoryStageQueue) Enqueue(ctx context.Context, item *StageItem) error {
	if item == nil || item.JobUUID == "" {
		return errno.ErrInvalidParam
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("queue is closed")
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}
	stored := *item
	q.items[itemKey(item.Stage, item.JobUUID)] = &stored
	q.mu.Unlock()

	select {
	case q.channel(item.Stage) <- item.JobUUID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errno.ErrQueueFull
	}
}

func (q *MemoryStageQueue) Dequeue(ctx context.Context, stage vo.Step) (*StageItem, error) {
	ch := q.channel(stage)
	for {
		select {
		case jobUUID, ok := <-ch:
			if !ok {
				return nil, fmt.Errorf("queue is closed")
			}
			item, err := q.GetItem(ctx, stage, jobUUID)
			if errors.Is(err, errno.ErrQueueItemMissing) {
				continue // 已被移除
			}
			return item, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *MemoryStageQueue) GetItem(ctx context.Context, stage vo.Step, jobUUID string) (*StageItem, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	item, ok := q.items[itemKey(stage, jobUUID)]
	if !ok {
		return nil, errno.ErrQueueItemMissing
	}
	copied := *item
	return &copied, nil
}

func (q *MemoryStageQueue) SetCancelled(ctx context.Context, stage vo.Step, jobUUID string) error {
	return q.mutate(stage, jobUUID, func(item *StageItem) { item.Cancelled = true })
}

func (q *MemoryStageQueue) ReportProgress(ctx context.Context, stage vo.Step, jobUUID string, pct int) error {
	return q.mutate(stage, jobUUID, func(item *StageItem) { item.Progress = pct })
}

func (q *MemoryStageQueue) Remove(ctx context.Context, stage vo.Step, jobUUID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.items, itemKey(stage, jobUUID))
	return nil
}

func (q *MemoryStageQueue) mutate(stage vo.Step, jobUUID string, fn func(*StageItem)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[itemKey(stage, jobUUID)]
	if !ok {
		return errno.ErrQueueItemMissing
	}
	fn(item)
	return nil
}

func (q *MemoryStageQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	for _, ch := range q.queues {
		close(ch)
	}
	return nil
}

// Size 某阶段排队中的工作项数量
func (q *MemoryStageQueue) Size(stage vo.Step) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if ch, ok := q.queues[stage]; ok {
		return len(ch)
	}
	return 0
}

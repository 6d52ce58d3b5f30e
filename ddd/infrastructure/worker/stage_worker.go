package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/service"
	"videogen-service/ddd/domain/vo"
	"videogen-service/ddd/infrastructure/queue"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// StageWorker 单个阶段的工作器接口
type StageWorker interface {
	// Start 启动工作器
	Start(ctx context.Context) error
	// Stop 停止工作器
	Stop() error
	// IsRunning 检查工作器是否运行中
	IsRunning() bool
	// Stats 获取工作器统计信息
	Stats() WorkerStats
}

// WorkerStats 工作器统计信息
type WorkerStats struct {
	ProcessedItems  uint64
	SuccessfulItems uint64
	FailedItems     uint64
	CancelledItems  uint64
	StartTime       time.Time
	LastItemTime    time.Time
}

// stageWorkerImpl 一个阶段的工作器: 出队 -> 拉载荷 -> 执行处理器 -> 传新载荷 -> 发事件.
// 推进流水线不在这里, CompletedEvent的监听方负责入队下一阶段。
type stageWorkerImpl struct {
	stage       vo.Step
	stageQueue  queue.StageQueue
	payloads    gateway.PayloadStore
	handler     service.StageHandler
	bus         *queue.EventBus
	workerCount int
	maxAttempts int

	running bool
	cancel  context.CancelFunc
	stats   WorkerStats
	mu      sync.RWMutex
	wg      sync.WaitGroup
}

// NewStageWorker 创建阶段工作器
func NewStageWorker(
	handler service.StageHandler,
	stageQueue queue.StageQueue,
	payloads gateway.PayloadStore,
	bus *queue.EventBus,
	workerCount int,
	maxAttempts int,
) StageWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &stageWorkerImpl{
		stage:       handler.Stage(),
		stageQueue:  stageQueue,
		payloads:    payloads,
		handler:     handler,
		bus:         bus,
		workerCount: workerCount,
		maxAttempts: maxAttempts,
		stats: WorkerStats{
			StartTime: time.Now(),
		},
	}
}

func (w *stageWorkerImpl) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("stage worker %s is already running", w.stage)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.stats.StartTime = time.Now()

	logger.Infof("Starting stage worker %s with %d goroutines", w.stage, w.workerCount)

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.workerLoop(workerCtx)
	}
	return nil
}

func (w *stageWorkerImpl) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	logger.Infof("Stage worker %s stopped", w.stage)
	return nil
}

func (w *stageWorkerImpl) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *stageWorkerImpl) Stats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *stageWorkerImpl) workerLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		item, err := w.stageQueue.Dequeue(ctx, w.stage)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warnf("Stage %s dequeue failed: %v", w.stage, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		w.processItem(ctx, item)
	}
}

func (w *stageWorkerImpl) processItem(ctx context.Context, item *queue.StageItem) {
	w.recordItem()

	payload, err := w.payloads.DownloadPayload(ctx, item.PayloadURL)
	if err != nil {
		w.handleFailure(ctx, item, fmt.Errorf("load payload: %w", err))
		return
	}

	sc := &service.StageContext{
		JobUUID: item.JobUUID,
		Payload: payload,
		Checkpoint: func(ctx context.Context) error {
			return w.checkpoint(ctx, item.JobUUID)
		},
		Progress: func(pct int) {
			if err := w.stageQueue.ReportProgress(ctx, w.stage, item.JobUUID, pct); err != nil {
				logger.Warnf("Stage %s progress report failed job=%s: %v", w.stage, item.JobUUID, err)
			}
			w.bus.PublishProgress(ctx, queue.ProgressEvent{
				Stage:      w.stage,
				JobUUID:    item.JobUUID,
				Percentage: pct,
			})
		},
	}

	result, err := w.handler.Execute(ctx, sc)
	if err != nil {
		w.handleFailure(ctx, item, err)
		return
	}

	url, err := w.payloads.UploadPayload(ctx, result)
	if err != nil {
		w.handleFailure(ctx, item, fmt.Errorf("store payload: %w", err))
		return
	}

	if err := w.stageQueue.Remove(ctx, w.stage, item.JobUUID); err != nil {
		logger.Warnf("Stage %s remove item failed job=%s: %v", w.stage, item.JobUUID, err)
	}
	w.recordSuccess()
	w.bus.PublishCompleted(ctx, queue.CompletedEvent{
		Stage:      w.stage,
		JobUUID:    item.JobUUID,
		PayloadURL: url,
		Payload:    result,
	})
}

// checkpoint 重读工作项的取消标记. 项已被移除也视为取消。
func (w *stageWorkerImpl) checkpoint(ctx context.Context, jobUUID string) error {
	item, err := w.stageQueue.GetItem(ctx, w.stage, jobUUID)
	if err != nil {
		if errors.Is(err, errno.ErrQueueItemMissing) {
			return errno.ErrJobCancelled
		}
		return err
	}
	if item.Cancelled {
		return errno.ErrJobCancelled
	}
	return nil
}

func (w *stageWorkerImpl) handleFailure(ctx context.Context, item *queue.StageItem, cause error) {
	if errors.Is(cause, errno.ErrJobCancelled) {
		logger.Info("Stage item cancelled", map[string]interface{}{
			"stage":    w.stage.String(),
			"job_uuid": item.JobUUID,
		})
		if err := w.stageQueue.Remove(ctx, w.stage, item.JobUUID); err != nil {
			logger.Warnf("Stage %s remove cancelled item failed job=%s: %v", w.stage, item.JobUUID, err)
		}
		w.recordCancelled()
		w.bus.PublishFailed(ctx, queue.FailedEvent{
			Stage:   w.stage,
			JobUUID: item.JobUUID,
			Err:     cause,
			Final:   true,
		})
		return
	}

	attempts := item.Attempts + 1
	logger.Error("Stage item failed", map[string]interface{}{
		"stage":    w.stage.String(),
		"job_uuid": item.JobUUID,
		"attempt":  attempts,
		"error":    cause.Error(),
	})
	w.recordFailure()

	if attempts < w.maxAttempts {
		retry := *item
		retry.Attempts = attempts
		if err := w.stageQueue.Enqueue(ctx, &retry); err != nil {
			logger.Errorf("Stage %s requeue failed job=%s: %v", w.stage, item.JobUUID, err)
		} else {
			w.bus.PublishFailed(ctx, queue.FailedEvent{
				Stage:   w.stage,
				JobUUID: item.JobUUID,
				Err:     cause,
				Final:   false,
			})
			return
		}
	}

	if err := w.stageQueue.Remove(ctx, w.stage, item.JobUUID); err != nil {
		logger.Warnf("Stage %s remove failed item job=%s: %v", w.stage, item.JobUUID, err)
	}
	w.bus.PublishFailed(ctx, queue.FailedEvent{
		Stage:   w.stage,
		JobUUID: item.JobUUID,
		Err:     cause,
		Final:   true,
	})
}

func (w *stageWorkerImpl) recordItem() {
	w.mu.Lock()
	w.stats.ProcessedItems++
	w.stats.LastItemTime = time.Now()
	w.mu.Unlock()
}

func (w *stageWorkerImpl) recordSuccess() {
	w.mu.Lock()
	w.stats.SuccessfulItems++
	w.mu.Unlock()
}

func (w *stageWorkerImpl) recordFailure() {
	w.mu.Lock()
	w.stats.FailedItems++
	w.mu.Unlock()
}

func (w *stageWorkerImpl) recordCancelled() {
	w.mu.Lock()
	w.stats.CancelledItems++
	w.mu.Unlock()
}

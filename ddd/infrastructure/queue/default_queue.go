package queue

import (
	"sync"

	"videogen-service/internal/resource"
	"videogen-service/pkg/config"
	"videogen-service/pkg/kafka"
	"videogen-service/pkg/logger"
)

var (
	defaultQueueOnce sync.Once
	defaultQueue     StageQueue

	defaultBusOnce sync.Once
	defaultBus     *EventBus
)

// DefaultStageQueue 全局阶段队列. Kafka未启用时退化为进程内队列,
// 单机部署和本地开发用
func DefaultStageQueue() StageQueue {
	defaultQueueOnce.Do(func() {
		cfg := config.GetGlobalConfig()
		if cfg != nil && cfg.Kafka.Enabled {
			defaultQueue = NewKafkaStageQueue(
				kafka.DefaultClient(),
				resource.DefaultRedisResource().Client(),
				cfg.Kafka.GroupID,
			)
			logger.Info("Stage queue backed by kafka")
			return
		}
		defaultQueue = NewMemoryStageQueue(1024)
		logger.Info("Stage queue backed by memory")
	})
	return defaultQueue
}

// DefaultEventBus 全局阶段事件总线
func DefaultEventBus() *EventBus {
	defaultBusOnce.Do(func() {
		defaultBus = NewEventBus()
	})
	return defaultBus
}

// CloseDefaultStageQueue 关闭全局阶段队列
func CloseDefaultStageQueue() {
	if defaultQueue != nil {
		_ = defaultQueue.Close()
	}
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	pkgkafka "videogen-service/pkg/kafka"
	"videogen-service/pkg/logger"
	"videogen-service/pkg/redisclient"
)

// itemTTL 工作项状态的保底过期时间, 防止遗留键堆积
const itemTTL = 72 * time.Hour

// KafkaStageQueue 用Kafka做持久化投递, Redis存工作项的可变状态
// (载荷URL/取消标记/进度/尝试次数)。消息体只带关联键, 消费侧以Redis为准。
type KafkaStageQueue struct {
	kafka   *pkgkafka.Client
	redis   *redisclient.Client
	groupID string

	mu      sync.Mutex
	readers map[vo.Step]*kafkago.Reader
	closed  bool
}

type stageMessage struct {
	JobUUID    string `json:"job_uuid"`
	PayloadURL string `json:"payload_url"`
}

func NewKafkaStageQueue(kafkaClient *pkgkafka.Client, redisClient *redisclient.Client, groupID string) *KafkaStageQueue {
	return &KafkaStageQueue{
		kafka:   kafkaClient,
		redis:   redisClient,
		groupID: groupID,
		readers: make(map[vo.Step]*kafkago.Reader),
	}
}

func itemKey(stage vo.Step, jobUUID string) string {
	return fmt.Sprintf("videogen:item:%s:%s", stage, jobUUID)
}

func (q *KafkaStageQueue) Enqueue(ctx context.Context, item *StageItem) error {
	if item == nil || item.JobUUID == "" {
		return errno.ErrInvalidParam
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}

	if err := q.redis.SetJSON(ctx, itemKey(item.Stage, item.JobUUID), item, itemTTL); err != nil {
		return fmt.Errorf("store stage item: %w", err)
	}

	msg := stageMessage{JobUUID: item.JobUUID, PayloadURL: item.PayloadURL}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := q.kafka.StageTopic(item.Stage.String())
	if err := q.kafka.Produce(ctx, topic, []byte(item.JobUUID), raw); err != nil {
		return fmt.Errorf("produce stage message: %w", err)
	}
	logger.Infof("Stage item enqueued stage=%s job_uuid=%s attempts=%d", item.Stage, item.JobUUID, item.Attempts)
	return nil
}

func (q *KafkaStageQueue) Dequeue(ctx context.Context, stage vo.Step) (*StageItem, error) {
	reader := q.reader(stage)
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			return nil, err
		}
		var m stageMessage
		if err := json.Unmarshal(msg.Value, &m); err != nil {
			logger.Warnf("Stage message unmarshal error stage=%s err=%v", stage, err)
			continue
		}
		item, err := q.GetItem(ctx, stage, m.JobUUID)
		if err != nil {
			// 工作项已被移除(取消路径), 消息作废
			if errors.Is(err, errno.ErrQueueItemMissing) {
				logger.Infof("Stage item gone, skipping stage=%s job_uuid=%s", stage, m.JobUUID)
				continue
			}
			return nil, err
		}
		return item, nil
	}
}

func (q *KafkaStageQueue) GetItem(ctx context.Context, stage vo.Step, jobUUID string) (*StageItem, error) {
	var item StageItem
	err := q.redis.GetJSON(ctx, itemKey(stage, jobUUID), &item)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errno.ErrQueueItemMissing
		}
		return nil, err
	}
	return &item, nil
}

func (q *KafkaStageQueue) SetCancelled(ctx context.Context, stage vo.Step, jobUUID string) error {
	item, err := q.GetItem(ctx, stage, jobUUID)
	if err != nil {
		return err
	}
	item.Cancelled = true
	return q.redis.SetJSON(ctx, itemKey(stage, jobUUID), item, itemTTL)
}

func (q *KafkaStageQueue) ReportProgress(ctx context.Context, stage vo.Step, jobUUID string, pct int) error {
	item, err := q.GetItem(ctx, stage, jobUUID)
	if err != nil {
		return err
	}
	item.Progress = pct
	return q.redis.SetJSON(ctx, itemKey(stage, jobUUID), item, itemTTL)
}

func (q *KafkaStageQueue) Remove(ctx context.Context, stage vo.Step, jobUUID string) error {
	return q.redis.Delete(ctx, itemKey(stage, jobUUID))
}

func (q *KafkaStageQueue) reader(stage vo.Step) *kafkago.Reader {
	q.mu.Lock()
	defer q.mu.Unlock()
	if r, ok := q.readers[stage]; ok {
		return r
	}
	r := q.kafka.Reader(q.kafka.StageTopic(stage.String()), q.groupID+"-"+stage.String())
	q.readers[stage] = r
	return r
}

func (q *KafkaStageQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	for stage, r := range q.readers {
		if err := r.Close(); err != nil {
			logger.Warnf("Stage reader close failed stage=%s err=%v", stage, err)
		}
	}
	return nil
}

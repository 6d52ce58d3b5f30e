package resource

import (
	"fmt"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/config"
	"videogen-service/pkg/kafka"
	"videogen-service/pkg/manager"
)

type KafkaResource struct{}

type KafkaResourcePlugin struct{}

func (p *KafkaResourcePlugin) Name() string { return "kafka" }

func (p *KafkaResourcePlugin) MustCreateResource() manager.Resource { return &KafkaResource{} }

// MustOpen 打开客户端并确保所有阶段主题存在
func (r *KafkaResource) MustOpen() {
	client := kafka.DefaultClient()
	client.MustOpen()

	cfg := config.GetGlobalConfig()
	partitions := 1
	replication := 1
	if cfg != nil {
		if cfg.Kafka.NumPartitions > 0 {
			partitions = cfg.Kafka.NumPartitions
		}
		if cfg.Kafka.ReplicationFactor > 0 {
			replication = cfg.Kafka.ReplicationFactor
		}
	}
	for _, stage := range vo.Stages() {
		topic := client.StageTopic(stage.String())
		if err := client.EnsureTopic(topic, partitions, replication); err != nil {
			panic(fmt.Sprintf("failed to ensure kafka topic %s: %v", topic, err))
		}
	}
}

func (r *KafkaResource) Close() { kafka.DefaultClient().Close() }

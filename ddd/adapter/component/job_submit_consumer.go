package component

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	appsvc "videogen-service/ddd/application/app"
	"videogen-service/ddd/application/cqe"
	"videogen-service/pkg/config"
	pkgkafka "videogen-service/pkg/kafka"
	"videogen-service/pkg/logger"
	"videogen-service/pkg/manager"
)

func init() {
	manager.RegisterComponentPlugin(&JobSubmitConsumerPlugin{})
}

// JobSubmitConsumerPlugin 消费上游服务投递的任务提交消息,
// 与HTTP提交走同一条应用服务路径
type JobSubmitConsumerPlugin struct{}

func (p *JobSubmitConsumerPlugin) Name() string { return "jobSubmitConsumer" }

func (p *JobSubmitConsumerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	var app appsvc.PipelineApp
	if deps != nil {
		if v, ok := deps.PipelineAppService.(appsvc.PipelineApp); ok {
			app = v
		}
	}
	if app == nil {
		app = appsvc.DefaultPipelineApp()
	}
	return &jobSubmitConsumer{app: app}
}

type jobSubmitConsumer struct {
	app    appsvc.PipelineApp
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *jobSubmitConsumer) Start() error {
	cfg := config.GetGlobalConfig()
	if cfg == nil || !cfg.Kafka.Enabled {
		logger.Info("Job submit consumer disabled, kafka not enabled")
		return nil
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	client := pkgkafka.DefaultClient()
	topic := client.StageTopic("submit")
	groupID := cfg.Kafka.GroupID + "-submit"
	reader := client.Reader(topic, groupID)

	go func() {
		defer reader.Close()
		logger.Infof("Kafka consumer started topic=%s group=%s", topic, groupID)
		for {
			msg, err := reader.ReadMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "EOF") {
					logger.Debug("Kafka reader EOF")
				} else {
					logger.Warnf("Kafka read error error=%s", err.Error())
				}
				continue
			}
			var m struct {
				Script      string `json:"script"`
				UserUUID    string `json:"user_uuid"`
				ProjectUUID string `json:"project_uuid"`
				CompanyUUID string `json:"company_uuid"`
				Images      []struct {
					Name string `json:"name"`
					URL  string `json:"url"`
				} `json:"images"`
			}
			if err := json.Unmarshal(msg.Value, &m); err != nil {
				logger.Warnf("Kafka message unmarshal error error=%s", err.Error())
				continue
			}
			req := &cqe.SubmitJobReq{
				Script:      m.Script,
				ProjectUUID: m.ProjectUUID,
				CompanyUUID: m.CompanyUUID,
			}
			for _, img := range m.Images {
				req.Images = append(req.Images, cqe.ImageUploadReq{Name: img.Name, URL: img.URL})
			}
			if dto, err := c.app.SubmitJob(context.Background(), req, m.UserUUID); err != nil {
				logger.Warnf("SubmitJob failed error=%s user_uuid=%s", err.Error(), m.UserUUID)
			} else {
				logger.Infof("Job submitted from kafka job_uuid=%s", dto.JobUUID)
			}
		}
	}()
	return nil
}

func (c *jobSubmitConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *jobSubmitConsumer) GetName() string { return "jobSubmitConsumer" }

package worker

import (
	"context"
	"fmt"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/service"
	"videogen-service/ddd/infrastructure/backend"
	"videogen-service/ddd/infrastructure/queue"
	"videogen-service/ddd/infrastructure/storage"
	"videogen-service/internal/resource"
	"videogen-service/pkg/config"
	"videogen-service/pkg/logger"
	"videogen-service/pkg/manager"
	"videogen-service/pkg/task"
)

func init() {
	manager.RegisterComponentPlugin(&StageWorkerComponentPlugin{})
}

// StageWorkerComponentPlugin 负责启动所有阶段的工作器
type StageWorkerComponentPlugin struct{}

func (p *StageWorkerComponentPlugin) Name() string {
	return "stageWorkerComponent"
}

func (p *StageWorkerComponentPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	if !cfg.Worker.Enabled {
		return &stageWorkerComponent{name: "stageWorker"}
	}

	storageGateway := storage.NewMinioStorage(resource.DefaultMinioResource(), cfg.Public.StorageBase)
	payloads := storage.NewObjectPayloadStore(storageGateway)
	stageQueue := queue.DefaultStageQueue()
	bus := queue.DefaultEventBus()

	be := cfg.Backends
	var recognizer gateway.SpeechRecognizer
	if be.RecognizerURL != "" {
		recognizer = backend.NewHTTPRecognizer(be.RecognizerURL, be.RequestTimeout)
	} else {
		recognizer = backend.NewSubprocessRecognizer(be.RecognizerBin, be.RecognizerArgs)
	}

	handlers := []service.StageHandler{
		service.NewEnhanceStageService(backend.NewEnhancerClient(be.EnhancerURL, be.RequestTimeout)),
		service.NewTTSStageService(backend.NewTTSClient(be.TTSURL, be.RequestTimeout), storageGateway),
		service.NewAlignStageService(
			storageGateway,
			backend.NewFFprobeProber(be.FFprobeBin),
			recognizer,
			cfg.Pipeline.SubtitleCap,
			cfg.Pipeline.TempDir,
		),
		service.NewContentStageService(backend.NewContentClient(be.ContentURL, be.RequestTimeout)),
		service.NewMusicStageService(
			backend.NewMusicClient(be.MusicURL, be.RequestTimeout),
			backend.NewHTTPAssetDownloader(be.DownloadTimeout),
			storageGateway,
			cfg.Pipeline.MusicPollInterval,
			cfg.Pipeline.MusicPollMaxAttempts,
			cfg.Pipeline.DownloadRetries,
			cfg.Pipeline.DownloadRetryBackoff,
		),
		service.NewCompositeStageService(backend.NewCompositeClient(be.CompositeURL, be.RequestTimeout)),
		service.NewRenderStageService(backend.NewRenderClient(be.RenderURL, be.RequestTimeout)),
	}

	workers := make([]StageWorker, 0, len(handlers))
	for _, h := range handlers {
		workers = append(workers, NewStageWorker(
			h,
			stageQueue,
			payloads,
			bus,
			cfg.Pipeline.StageWorkers(h.Stage().String()),
			cfg.Pipeline.MaxStageAttempts,
		))
	}

	return &stageWorkerComponent{
		name:    "stageWorker",
		workers: workers,
	}
}

type stageWorkerComponent struct {
	name    string
	workers []StageWorker
}

func (c *stageWorkerComponent) Start() error {
	if len(c.workers) == 0 {
		logger.Info("Stage worker component idle, worker disabled")
		return nil
	}

	// 注册后台任务，让应用启动时统一管理
	for i, w := range c.workers {
		worker := w
		task.Register(&backgroundTaskAdapter{
			name:      fmt.Sprintf("%s-%d", c.name, i),
			startFunc: worker.Start,
			stopFunc:  worker.Stop,
		})
	}
	logger.Infof("Stage worker component registered %d background tasks", len(c.workers))
	return nil
}

func (c *stageWorkerComponent) Stop() error {
	// 背景任务由 task.Manager 控制停止，这里保持幂等
	queue.CloseDefaultStageQueue()
	logger.Infof("Stage worker component stopped name=%s", c.name)
	return nil
}

func (c *stageWorkerComponent) GetName() string {
	return c.name
}

// backgroundTaskAdapter adapts Start/Stop functions to the BackgroundTask interface.
type backgroundTaskAdapter struct {
	name      string
	startFunc func(ctx context.Context) error
	stopFunc  func() error
}

func (b *backgroundTaskAdapter) Name() string                    { return b.name }
func (b *backgroundTaskAdapter) Start(ctx context.Context) error { return b.startFunc(ctx) }
func (b *backgroundTaskAdapter) Stop() error                     { return b.stopFunc() }

package service

import (
	"context"
	"fmt"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// CompositeStageService composite阶段: 把语音/配乐/素材/图片合成主视频
type CompositeStageService struct {
	compositor gateway.VideoCompositor
}

func NewCompositeStageService(compositor gateway.VideoCompositor) *CompositeStageService {
	return &CompositeStageService{compositor: compositor}
}

func (s *CompositeStageService) Stage() vo.Step {
	return vo.StepComposite
}

func (s *CompositeStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	p := sc.Payload
	if p.TTSWavFileURL == "" {
		return nil, fmt.Errorf("job %s: %w", sc.JobUUID, errno.ErrMissingAudio)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(10)

	url, err := s.compositor.Composite(ctx, &gateway.CompositeRequest{
		JobUUID:         sc.JobUUID,
		AudioURL:        p.TTSWavFileURL,
		MusicURL:        p.MusicTrackURL,
		Rows:            p.Rows,
		VideoSelections: p.VideoSelections,
		ImageSpans:      p.ImageSpans,
	})
	if err != nil {
		return nil, fmt.Errorf("composite video: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	p.CompositeVideoURL = url

	logger.Info("video composited", map[string]interface{}{
		"job_uuid":  sc.JobUUID,
		"video_url": url,
	})
	sc.Progress(100)
	return p, nil
}

package service

import (
	"context"
	"fmt"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// RenderStageService render阶段: 主视频按各输出规格渲染成最终文件
type RenderStageService struct {
	renderer gateway.VideoRenderer
}

func NewRenderStageService(renderer gateway.VideoRenderer) *RenderStageService {
	return &RenderStageService{renderer: renderer}
}

func (s *RenderStageService) Stage() vo.Step {
	return vo.StepRender
}

func (s *RenderStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	p := sc.Payload
	if p.CompositeVideoURL == "" {
		return nil, fmt.Errorf("composite video not produced yet: %w", errno.ErrMissingParam)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(10)

	files, err := s.renderer.Render(ctx, &gateway.RenderRequest{
		JobUUID:           sc.JobUUID,
		CompositeVideoURL: p.CompositeVideoURL,
		SubtitleSrtURL:    p.SubtitleSrtURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render video: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	p.RenderedFiles = files

	logger.Info("video rendered", map[string]interface{}{
		"job_uuid": sc.JobUUID,
		"files":    len(files),
	})
	sc.Progress(100)
	return p, nil
}

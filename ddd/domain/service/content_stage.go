package service

import (
	"context"
	"fmt"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// ContentStageService content-analysis阶段: 逐行送入内容分析后端选素材
type ContentStageService struct {
	analyzer gateway.ContentAnalyzer
}

func NewContentStageService(analyzer gateway.ContentAnalyzer) *ContentStageService {
	return &ContentStageService{analyzer: analyzer}
}

func (s *ContentStageService) Stage() vo.Step {
	return vo.StepContentAnalysis
}

func (s *ContentStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	if len(sc.Payload.RowContexts) == 0 {
		return nil, fmt.Errorf("row contexts not produced yet: %w", errno.ErrMissingParam)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(10)

	selections, err := s.analyzer.SelectVideos(ctx, sc.Payload.RowContexts)
	if err != nil {
		return nil, fmt.Errorf("select videos: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Payload.VideoSelections = selections

	logger.Info("videos selected", map[string]interface{}{
		"job_uuid":   sc.JobUUID,
		"selections": len(selections),
	})
	sc.Progress(100)
	return sc.Payload, nil
}

package service

import (
	"context"
	"fmt"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// EnhanceStageService ssml-enhance阶段: 调用脚本增强后端,
// 把SSML/纯文本/标记子串合并进载荷
type EnhanceStageService struct {
	enhancer gateway.EnhancerService
}

func NewEnhanceStageService(enhancer gateway.EnhancerService) *EnhanceStageService {
	return &EnhanceStageService{enhancer: enhancer}
}

func (s *EnhanceStageService) Stage() vo.Step {
	return vo.StepEnhance
}

func (s *EnhanceStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(10)

	result, err := s.enhancer.Enhance(ctx, sc.Payload.Script)
	if err != nil {
		return nil, fmt.Errorf("enhance script: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}

	// 脚本里引用的图片必须在提交时已上传
	uploaded := make(map[string]struct{}, len(sc.Payload.Images))
	for _, img := range sc.Payload.Images {
		uploaded[img.Name] = struct{}{}
	}
	for _, span := range result.ImageSpans {
		if _, ok := uploaded[span.Name]; !ok {
			return nil, fmt.Errorf("image %q: %w", span.Name, errno.ErrImageNotUploaded)
		}
	}

	sc.Payload.SSML = result.SSML
	sc.Payload.PlainScript = result.PlainScript
	sc.Payload.ImageSpans = result.ImageSpans
	sc.Payload.Citations = result.Citations
	sc.Payload.Disclaimers = result.Disclaimers

	logger.Info("script enhanced", map[string]interface{}{
		"job_uuid":    sc.JobUUID,
		"image_spans": len(result.ImageSpans),
		"citations":   len(result.Citations),
	})
	sc.Progress(100)
	return sc.Payload, nil
}

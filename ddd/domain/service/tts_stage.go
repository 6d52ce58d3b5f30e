package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// TTSStageService tts阶段: SSML合成语音并落到对象存储
type TTSStageService struct {
	synthesizer gateway.SpeechSynthesizer
	storage     gateway.StorageGateway
}

func NewTTSStageService(synthesizer gateway.SpeechSynthesizer, storage gateway.StorageGateway) *TTSStageService {
	return &TTSStageService{synthesizer: synthesizer, storage: storage}
}

func (s *TTSStageService) Stage() vo.Step {
	return vo.StepTTS
}

func (s *TTSStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	if sc.Payload.SSML == "" {
		return nil, fmt.Errorf("ssml not produced yet: %w", errno.ErrMissingParam)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(10)

	wav, err := s.synthesizer.Synthesize(ctx, sc.Payload.SSML)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(70)

	objectKey := fmt.Sprintf("%s/tts-%s.wav", sc.JobUUID, uuid.NewString())
	url, err := s.storage.UploadBytes(ctx, wav, objectKey, "audio/wav")
	if err != nil {
		return nil, fmt.Errorf("upload tts wav: %w", err)
	}
	sc.Payload.TTSWavFileURL = url

	logger.Info("speech synthesized", map[string]interface{}{
		"job_uuid": sc.JobUUID,
		"wav_url":  url,
		"bytes":    len(wav),
	})
	sc.Progress(100)
	return sc.Payload, nil
}

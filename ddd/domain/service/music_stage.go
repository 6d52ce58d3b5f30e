package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// MusicStageService music阶段: 提交配乐任务, 轮询到终态后把音轨拉回自己的存储
type MusicStageService struct {
	composer   gateway.MusicComposer
	downloader gateway.AssetDownloader
	storage    gateway.StorageGateway

	pollInterval time.Duration
	maxAttempts  int
	retries      int
	retryBackoff time.Duration
}

func NewMusicStageService(composer gateway.MusicComposer, downloader gateway.AssetDownloader, storage gateway.StorageGateway, pollInterval time.Duration, maxAttempts, retries int, retryBackoff time.Duration) *MusicStageService {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	if retries <= 0 {
		retries = 3
	}
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}
	return &MusicStageService{
		composer:     composer,
		downloader:   downloader,
		storage:      storage,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		retries:      retries,
		retryBackoff: retryBackoff,
	}
}

func (s *MusicStageService) Stage() vo.Step {
	return vo.StepMusic
}

func (s *MusicStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}

	jobRef, err := s.composer.SubmitJob(ctx, &gateway.MusicRequest{
		JobUUID:    sc.JobUUID,
		Script:     sc.Payload.PlainScript,
		DurationMs: sc.Payload.AudioDurationMs,
	})
	if err != nil {
		return nil, fmt.Errorf("submit music job: %w", err)
	}
	sc.Progress(10)

	trackURL, err := s.waitForTrack(ctx, sc, jobRef)
	if err != nil {
		return nil, err
	}
	sc.Progress(70)

	data, err := s.downloadWithRetries(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("download music track: %w", err)
	}
	objectKey := fmt.Sprintf("%s/music-%s.mp3", sc.JobUUID, uuid.NewString())
	url, err := s.storage.UploadBytes(ctx, data, objectKey, "audio/mpeg")
	if err != nil {
		return nil, fmt.Errorf("upload music track: %w", err)
	}
	sc.Payload.MusicTrackURL = url

	logger.Info("music track ready", map[string]interface{}{
		"job_uuid":  sc.JobUUID,
		"track_url": url,
	})
	sc.Progress(100)
	return sc.Payload, nil
}

// waitForTrack 每轮询一次都过一遍取消检查点, 取消的任务不会陪着后端等到天荒地老
func (s *MusicStageService) waitForTrack(ctx context.Context, sc *StageContext, jobRef string) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err := sc.Checkpoint(ctx); err != nil {
			return "", err
		}
		status, err := s.composer.GetJobStatus(ctx, jobRef)
		if err != nil {
			return "", fmt.Errorf("poll music job %s: %w", jobRef, err)
		}
		switch status.State {
		case gateway.MusicJobCompleted:
			if status.TrackURL == "" {
				return "", fmt.Errorf("music job %s completed without track url: %w", jobRef, errno.ErrBackendFailed)
			}
			return status.TrackURL, nil
		case gateway.MusicJobFailed:
			return "", fmt.Errorf("music job %s failed: %s: %w", jobRef, status.Message, errno.ErrBackendFailed)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
	return "", fmt.Errorf("music job %s still running after %d polls: %w", jobRef, s.maxAttempts, errno.ErrPollExhausted)
}

func (s *MusicStageService) downloadWithRetries(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryBackoff * time.Duration(attempt)):
			}
		}
		data, err := s.downloader.Download(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		logger.Warn("music track download failed, retrying", map[string]interface{}{
			"url":     url,
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}
	return nil, lastErr
}

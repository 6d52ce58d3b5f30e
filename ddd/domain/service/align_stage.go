package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/service/alignment"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// AlignStageService align阶段: 识别合成音频, 把字幕行/句子/标记子串对齐到时间轴,
// 并导出SRT与CSV
type AlignStageService struct {
	storage     gateway.StorageGateway
	prober      gateway.AudioProber
	recognizer  gateway.SpeechRecognizer
	subtitleCap int
	tempDir     string
}

func NewAlignStageService(storage gateway.StorageGateway, prober gateway.AudioProber, recognizer gateway.SpeechRecognizer, subtitleCap int, tempDir string) *AlignStageService {
	if subtitleCap <= 0 {
		subtitleCap = alignment.DefaultSubtitleCap
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &AlignStageService{
		storage:     storage,
		prober:      prober,
		recognizer:  recognizer,
		subtitleCap: subtitleCap,
		tempDir:     tempDir,
	}
}

func (s *AlignStageService) Stage() vo.Step {
	return vo.StepAlign
}

func (s *AlignStageService) Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error) {
	p := sc.Payload
	if p.TTSWavFileURL == "" {
		return nil, fmt.Errorf("job %s: %w", sc.JobUUID, errno.ErrMissingAudio)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}

	audioPath := filepath.Join(s.tempDir, fmt.Sprintf("align-%s-%s.wav", sc.JobUUID, uuid.NewString()))
	if err := s.storage.DownloadFile(ctx, p.TTSWavFileURL, audioPath); err != nil {
		return nil, fmt.Errorf("download tts wav: %w", err)
	}
	defer os.Remove(audioPath)
	sc.Progress(10)

	durationMs, err := s.prober.DurationMs(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio duration: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}

	words, err := s.recognizer.Recognize(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("recognize audio: %w", err)
	}
	if err := sc.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sc.Progress(60)

	inputText := alignment.PreprocessText(p.PlainScript)

	rows := alignment.BuildRows(inputText, s.subtitleCap)
	rowSegs, err := alignment.MatchWords(rows, words)
	if err != nil {
		return nil, fmt.Errorf("align rows: %w", err)
	}
	sentences := alignment.SplitSentences(inputText)
	sentSegs, err := alignment.MatchWords(sentences, words)
	if err != nil {
		return nil, fmt.Errorf("align sentences: %w", err)
	}
	// 识别器的最后一个词往往早于音频真正结束, 收尾段对齐到音频时长
	if len(rowSegs) > 0 {
		rowSegs[len(rowSegs)-1].EndMs = durationMs
	}
	if len(sentSegs) > 0 {
		sentSegs[len(sentSegs)-1].EndMs = durationMs
	}
	sc.Progress(70)

	// 标记子串用原始纯文本定位, 不能用预处理过的文本
	imageSpans, err := alignment.MatchSpanTimes(p.ImageSpans, p.PlainScript, words)
	if err != nil {
		return nil, fmt.Errorf("align image spans: %w", err)
	}
	citations, err := alignment.MatchSpanTimes(p.Citations, p.PlainScript, words)
	if err != nil {
		return nil, fmt.Errorf("align citations: %w", err)
	}
	disclaimers, err := alignment.MatchSpanTimes(p.Disclaimers, p.PlainScript, words)
	if err != nil {
		return nil, fmt.Errorf("align disclaimers: %w", err)
	}

	wordTimings := alignment.BuildWordTimings(rowSegs)
	contexts := alignment.BuildContexts(rowSegs)

	srtKey := fmt.Sprintf("%s/%s.srt", sc.JobUUID, uuid.NewString())
	srtURL, err := s.storage.UploadBytes(ctx, []byte(alignment.FormatSRT(wordTimings)), srtKey, "application/x-subrip")
	if err != nil {
		return nil, fmt.Errorf("upload srt: %w", err)
	}
	csvKey := fmt.Sprintf("%s/%s.csv", sc.JobUUID, uuid.NewString())
	csvURL, err := s.storage.UploadBytes(ctx, []byte(alignment.RowsToCSV(rows)), csvKey, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("upload csv: %w", err)
	}

	p.AudioDurationMs = durationMs
	p.Rows = rowSegs
	p.Sentences = sentSegs
	p.WordTimings = wordTimings
	p.RowContexts = contexts
	p.ImageSpans = imageSpans
	p.Citations = citations
	p.Disclaimers = disclaimers
	p.SubtitleSrtURL = srtURL
	p.SubtitleCsvURL = csvURL

	logger.Info("audio aligned", map[string]interface{}{
		"job_uuid":    sc.JobUUID,
		"duration_ms": durationMs,
		"rows":        len(rowSegs),
		"sentences":   len(sentSegs),
		"words":       len(wordTimings),
	})
	sc.Progress(100)
	return p, nil
}

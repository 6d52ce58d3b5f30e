package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
	"videogen-service/pkg/logger"
)

// recognizedWord 识别器输出的一个词, 时间单位秒
type recognizedWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Conf  float64 `json:"conf"`
}

// SubprocessRecognizer 子进程语音识别器. 命令行最后一个参数是音频路径,
// stdout输出JSON词数组(秒)
type SubprocessRecognizer struct {
	bin  string
	args []string
}

func NewSubprocessRecognizer(bin string, args []string) gateway.SpeechRecognizer {
	return &SubprocessRecognizer{bin: bin, args: args}
}

func (r *SubprocessRecognizer) Recognize(ctx context.Context, audioPath string) ([]vo.Word, error) {
	args := append(append([]string{}, r.args...), audioPath)
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		logger.Error("Recognizer subprocess failed", map[string]interface{}{
			"bin":   r.bin,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("run %s: %v: %w", r.bin, err, errno.ErrRecognizerFailed)
	}
	return decodeWords(out)
}

// HTTPRecognizer 语音识别后端HTTP客户端, 直接上传wav数据
type HTTPRecognizer struct {
	client *httpClient
}

func NewHTTPRecognizer(baseURL string, timeout time.Duration) gateway.SpeechRecognizer {
	return &HTTPRecognizer{client: newHTTPClient(baseURL, timeout)}
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, audioPath string) ([]vo.Word, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	out, err := r.client.postRaw(ctx, "/v1/recognize", "audio/wav", audio)
	if err != nil {
		return nil, fmt.Errorf("recognizer backend: %w", err)
	}
	return decodeWords(out)
}

func decodeWords(data []byte) ([]vo.Word, error) {
	var raw []recognizedWord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode recognizer output: %v: %w", err, errno.ErrRecognizerFailed)
	}
	words := make([]vo.Word, 0, len(raw))
	for _, w := range raw {
		words = append(words, vo.WordFromSeconds(w.Word, w.Start, w.End, w.Conf))
	}
	return vo.AppendSentinel(words), nil
}

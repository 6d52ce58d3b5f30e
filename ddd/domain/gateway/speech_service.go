package gateway

import (
	"context"

	"videogen-service/ddd/domain/vo"
)

// SpeechSynthesizer 语音合成后端, 输入SSML输出wav数据
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, ssml string) ([]byte, error)
}

// SpeechRecognizer 语音识别后端. 返回毫秒单位的单词流, 末尾已追加哨兵词,
// 顺序按StartMs非递减。
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audioPath string) ([]vo.Word, error)
}

// AudioProber 探测音频时长
type AudioProber interface {
	DurationMs(ctx context.Context, audioPath string) (int64, error)
}

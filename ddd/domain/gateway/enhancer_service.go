package gateway

import (
	"context"

	"videogen-service/ddd/domain/vo"
)

// EnhanceResult 脚本增强结果. PlainScript是去掉标记后的纯文本,
// 与识别器对齐时用的文本必须完全一致。
type EnhanceResult struct {
	SSML        string          `json:"ssml"`
	PlainScript string          `json:"plain_script"`
	ImageSpans  []vo.MarkedSpan `json:"image_spans,omitempty"`
	Citations   []vo.MarkedSpan `json:"citations,omitempty"`
	Disclaimers []vo.MarkedSpan `json:"disclaimers,omitempty"`
}

// EnhancerService 脚本增强后端
type EnhancerService interface {
	Enhance(ctx context.Context, script string) (*EnhanceResult, error)
}

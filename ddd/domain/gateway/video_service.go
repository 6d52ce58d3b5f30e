package gateway

import (
	"context"

	"videogen-service/ddd/domain/vo"
)

// CompositeRequest 合成请求
type CompositeRequest struct {
	JobUUID         string              `json:"job_uuid"`
	AudioURL        string              `json:"audio_url"`
	MusicURL        string              `json:"music_url,omitempty"`
	Rows            []vo.Segment        `json:"rows"`
	VideoSelections []vo.VideoSelection `json:"video_selections"`
	ImageSpans      []vo.MarkedSpan     `json:"image_spans,omitempty"`
}

// VideoCompositor 合成后端
type VideoCompositor interface {
	Composite(ctx context.Context, req *CompositeRequest) (string, error)
}

// RenderRequest 渲染请求
type RenderRequest struct {
	JobUUID           string `json:"job_uuid"`
	CompositeVideoURL string `json:"composite_video_url"`
	SubtitleSrtURL    string `json:"subtitle_srt_url,omitempty"`
}

// VideoRenderer 渲染后端, 返回按输出规格命名的文件列表
type VideoRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (vo.FileList, error)
}

package gateway

import (
	"context"

	"videogen-service/ddd/domain/vo"
)

// ContentAnalyzer 内容分析后端, 为每行字幕选素材
type ContentAnalyzer interface {
	SelectVideos(ctx context.Context, rows []vo.TextContext) ([]vo.VideoSelection, error)
}

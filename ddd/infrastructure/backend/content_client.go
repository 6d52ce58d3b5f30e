package backend

import (
	"context"
	"fmt"
	"time"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
)

// ContentClient 内容分析后端HTTP客户端
type ContentClient struct {
	client *httpClient
}

func NewContentClient(baseURL string, timeout time.Duration) gateway.ContentAnalyzer {
	return &ContentClient{client: newHTTPClient(baseURL, timeout)}
}

func (c *ContentClient) SelectVideos(ctx context.Context, rows []vo.TextContext) ([]vo.VideoSelection, error) {
	req := struct {
		Rows []vo.TextContext `json:"rows"`
	}{Rows: rows}

	var resp struct {
		Selections []vo.VideoSelection `json:"selections"`
	}
	if err := c.client.postJSON(ctx, "/v1/select-videos", &req, &resp); err != nil {
		return nil, fmt.Errorf("content backend: %w", err)
	}
	return resp.Selections, nil
}

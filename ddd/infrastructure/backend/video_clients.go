package backend

import (
	"context"
	"fmt"
	"time"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
)

// CompositeClient 视频合成后端HTTP客户端
type CompositeClient struct {
	client *httpClient
}

func NewCompositeClient(baseURL string, timeout time.Duration) gateway.VideoCompositor {
	return &CompositeClient{client: newHTTPClient(baseURL, timeout)}
}

func (c *CompositeClient) Composite(ctx context.Context, req *gateway.CompositeRequest) (string, error) {
	var resp struct {
		VideoURL string `json:"video_url"`
	}
	if err := c.client.postJSON(ctx, "/v1/composite", req, &resp); err != nil {
		return "", fmt.Errorf("composite backend: %w", err)
	}
	if resp.VideoURL == "" {
		return "", fmt.Errorf("composite backend returned empty video url")
	}
	return resp.VideoURL, nil
}

// RenderClient 视频渲染后端HTTP客户端
type RenderClient struct {
	client *httpClient
}

func NewRenderClient(baseURL string, timeout time.Duration) gateway.VideoRenderer {
	return &RenderClient{client: newHTTPClient(baseURL, timeout)}
}

func (c *RenderClient) Render(ctx context.Context, req *gateway.RenderRequest) (vo.FileList, error) {
	var resp struct {
		Files vo.FileList `json:"files"`
	}
	if err := c.client.postJSON(ctx, "/v1/render", req, &resp); err != nil {
		return nil, fmt.Errorf("render backend: %w", err)
	}
	return resp.Files, nil
}

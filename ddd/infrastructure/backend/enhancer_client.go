package backend

import (
	"context"
	"fmt"
	"time"

	"videogen-service/ddd/domain/gateway"
)

// EnhancerClient 脚本增强后端HTTP客户端
type EnhancerClient struct {
	client *httpClient
}

func NewEnhancerClient(baseURL string, timeout time.Duration) gateway.EnhancerService {
	return &EnhancerClient{client: newHTTPClient(baseURL, timeout)}
}

func (c *EnhancerClient) Enhance(ctx context.Context, script string) (*gateway.EnhanceResult, error) {
	req := struct {
		Script string `json:"script"`
	}{Script: script}

	var result gateway.EnhanceResult
	if err := c.client.postJSON(ctx, "/v1/enhance", &req, &result); err != nil {
		return nil, fmt.Errorf("enhancer backend: %w", err)
	}
	return &result, nil
}

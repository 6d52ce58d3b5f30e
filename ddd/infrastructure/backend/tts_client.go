package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"videogen-service/ddd/domain/gateway"
)

// TTSClient 语音合成后端HTTP客户端, 响应体是原始wav数据
type TTSClient struct {
	client *httpClient
}

func NewTTSClient(baseURL string, timeout time.Duration) gateway.SpeechSynthesizer {
	return &TTSClient{client: newHTTPClient(baseURL, timeout)}
}

func (c *TTSClient) Synthesize(ctx context.Context, ssml string) ([]byte, error) {
	body, err := json.Marshal(struct {
		SSML string `json:"ssml"`
	}{SSML: ssml})
	if err != nil {
		return nil, err
	}
	wav, err := c.client.postRaw(ctx, "/v1/synthesize", "application/json", body)
	if err != nil {
		return nil, fmt.Errorf("tts backend: %w", err)
	}
	return wav, nil
}

package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"videogen-service/ddd/domain/gateway"
)

// MusicClient 配乐生成后端HTTP客户端. 提交返回任务引用, 之后轮询状态
type MusicClient struct {
	client *httpClient
}

func NewMusicClient(baseURL string, timeout time.Duration) gateway.MusicComposer {
	return &MusicClient{client: newHTTPClient(baseURL, timeout)}
}

func (c *MusicClient) SubmitJob(ctx context.Context, req *gateway.MusicRequest) (string, error) {
	var resp struct {
		JobRef string `json:"job_ref"`
	}
	if err := c.client.postJSON(ctx, "/v1/music-jobs", req, &resp); err != nil {
		return "", fmt.Errorf("music backend submit: %w", err)
	}
	if resp.JobRef == "" {
		return "", fmt.Errorf("music backend returned empty job ref")
	}
	return resp.JobRef, nil
}

func (c *MusicClient) GetJobStatus(ctx context.Context, jobRef string) (*gateway.MusicJobStatus, error) {
	var status gateway.MusicJobStatus
	if err := c.client.getJSON(ctx, "/v1/music-jobs/"+url.PathEscape(jobRef), &status); err != nil {
		return nil, fmt.Errorf("music backend status: %w", err)
	}
	return &status, nil
}

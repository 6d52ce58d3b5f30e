package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/pkg/errno"
)

// HTTPAssetDownloader 拉取外部生成的资源(配乐轨等)
type HTTPAssetDownloader struct {
	hc *http.Client
}

func NewHTTPAssetDownloader(timeout time.Duration) gateway.AssetDownloader {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPAssetDownloader{hc: &http.Client{Timeout: timeout}}
}

func (d *HTTPAssetDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s returned %d: %s: %w",
			url, resp.StatusCode, strings.TrimSpace(string(snippet)), errno.ErrBackendFailed)
	}
	return io.ReadAll(resp.Body)
}

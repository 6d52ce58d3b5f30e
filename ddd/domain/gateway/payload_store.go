package gateway

import (
	"context"

	"videogen-service/ddd/domain/vo"
)

// PayloadStore 载荷文档存取. 上传产生新版本并返回新URL, 旧版本保留不覆盖。
type PayloadStore interface {
	UploadPayload(ctx context.Context, payload *vo.JobPayload) (string, error)
	DownloadPayload(ctx context.Context, url string) (*vo.JobPayload, error)
}

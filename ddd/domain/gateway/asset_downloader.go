package gateway

import "context"

// AssetDownloader 下载外部生成的资源(如配乐轨), 与对象存储网关分开,
// 因为URL不属于我们自己的存储
type AssetDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

package gateway

import "context"

// StorageGateway 存储网关
type StorageGateway interface {
	// UploadFile 上传本地文件，返回可访问的对象URL
	UploadFile(ctx context.Context, localPath, objectKey, contentType string) (string, error)
	// UploadBytes 直接上传内存数据
	UploadBytes(ctx context.Context, data []byte, objectKey, contentType string) (string, error)
	// DownloadFile 下载对象到本地文件
	DownloadFile(ctx context.Context, url, localPath string) error
	// DownloadBytes 下载对象到内存
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

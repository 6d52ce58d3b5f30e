package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/internal/resource"
	"videogen-service/pkg/logger"
)

// MinioStorage MinIO存储实现. 对象URL形如<storage_base>/<objectKey>
type MinioStorage struct {
	minioResource *resource.MinioResource
	publicBase    string
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource, publicBase string) gateway.StorageGateway {
	return &MinioStorage{
		minioResource: minioResource,
		publicBase:    strings.TrimRight(publicBase, "/"),
	}
}

// UploadFile 上传本地文件，返回可访问的对象URL
func (s *MinioStorage) UploadFile(ctx context.Context, localPath, objectKey, contentType string) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	file, err := os.Open(localPath)
	if err != nil {
		logger.Error("Failed to open local file", map[string]interface{}{
			"local_path": localPath,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("open local file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("get file info failed: %w", err)
	}

	if contentType == "" {
		contentType = getContentTypeFromExtension(objectKey)
	}

	_, err = client.PutObject(ctx, bucketName, objectKey, file, fileInfo.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload file to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("upload file to minio failed: %w", err)
	}

	logger.Info("File uploaded", map[string]interface{}{
		"object_key": objectKey,
		"size":       fileInfo.Size(),
	})
	return s.objectURL(objectKey), nil
}

// UploadBytes 直接上传内存数据
func (s *MinioStorage) UploadBytes(ctx context.Context, data []byte, objectKey, contentType string) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if contentType == "" {
		contentType = getContentTypeFromExtension(objectKey)
	}

	_, err := client.PutObject(ctx, bucketName, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload bytes to MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("upload bytes to minio failed: %w", err)
	}

	logger.Info("Object uploaded", map[string]interface{}{
		"object_key": objectKey,
		"size":       len(data),
	})
	return s.objectURL(objectKey), nil
}

// DownloadFile 下载对象到本地文件
func (s *MinioStorage) DownloadFile(ctx context.Context, url, localPath string) error {
	objectKey, err := s.objectKeyFromURL(url)
	if err != nil {
		return err
	}

	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory failed: %w", err)
	}

	object, err := client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		logger.Error("Failed to get object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return fmt.Errorf("get object from minio failed: %w", err)
	}
	defer object.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local file failed: %w", err)
	}
	defer localFile.Close()

	if _, err = localFile.ReadFrom(object); err != nil {
		logger.Error("Failed to download object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"local_path": localPath,
			"error":      err.Error(),
		})
		return fmt.Errorf("download object from minio failed: %w", err)
	}
	return nil
}

// DownloadBytes 下载对象到内存
func (s *MinioStorage) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	objectKey, err := s.objectKeyFromURL(url)
	if err != nil {
		return nil, err
	}

	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	object, err := client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object from minio failed: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("read object from minio failed: %w", err)
	}
	return data, nil
}

func (s *MinioStorage) objectURL(objectKey string) string {
	if s.publicBase == "" {
		return objectKey
	}
	return s.publicBase + "/" + objectKey
}

// objectKeyFromURL 把对象URL还原成objectKey, 只接受自己存储里的对象
func (s *MinioStorage) objectKeyFromURL(url string) (string, error) {
	key := url
	if s.publicBase != "" {
		key = strings.TrimPrefix(url, s.publicBase+"/")
	}
	if strings.Contains(key, "://") {
		return "", fmt.Errorf("object url %q is outside storage base", url)
	}
	return key, nil
}

// getContentTypeFromExtension 根据文件扩展名获取内容类型
func getContentTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".srt":
		return "application/x-subrip"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

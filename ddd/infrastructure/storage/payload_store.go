package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
)

// ObjectPayloadStore 载荷文档存取. 每次上传版本号+1, 写成新对象,
// 旧版本留在存储里做审计
type ObjectPayloadStore struct {
	storage gateway.StorageGateway
}

func NewObjectPayloadStore(storage gateway.StorageGateway) gateway.PayloadStore {
	return &ObjectPayloadStore{storage: storage}
}

func (s *ObjectPayloadStore) UploadPayload(ctx context.Context, payload *vo.JobPayload) (string, error) {
	payload.Version++
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	objectKey := fmt.Sprintf("%s/payload-%d.json", payload.JobUUID, payload.Version)
	url, err := s.storage.UploadBytes(ctx, data, objectKey, "application/json")
	if err != nil {
		return "", fmt.Errorf("upload payload v%d: %w", payload.Version, err)
	}
	return url, nil
}

func (s *ObjectPayloadStore) DownloadPayload(ctx context.Context, url string) (*vo.JobPayload, error) {
	data, err := s.storage.DownloadBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download payload: %w", err)
	}
	var payload vo.JobPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), errno.ErrPayloadCorrupted)
	}
	return &payload, nil
}

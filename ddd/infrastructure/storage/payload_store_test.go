package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
)

type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) UploadFile(_ context.Context, _, objectKey, _ string) (string, error) {
	return "mem://" + objectKey, nil
}

func (s *memStorage) UploadBytes(_ context.Context, data []byte, objectKey, _ string) (string, error) {
	s.objects[objectKey] = data
	return "mem://" + objectKey, nil
}

func (s *memStorage) DownloadFile(_ context.Context, _, _ string) error {
	return nil
}

func (s *memStorage) DownloadBytes(_ context.Context, url string) ([]byte, error) {
	data, ok := s.objects[strings.TrimPrefix(url, "mem://")]
	if !ok {
		return nil, fmt.Errorf("object %s not found", url)
	}
	return data, nil
}

func TestPayloadStoreVersioning(t *testing.T) {
	store := newMemStorage()
	payloads := NewObjectPayloadStore(store)
	ctx := context.Background()

	p := &vo.JobPayload{JobUUID: "job-1", Script: "hello"}

	url1, err := payloads.UploadPayload(ctx, p)
	if err != nil {
		t.Fatalf("upload v1: %v", err)
	}
	if p.Version != 1 {
		t.Fatalf("version after first upload = %d", p.Version)
	}
	if url1 != "mem://job-1/payload-1.json" {
		t.Fatalf("v1 url = %s", url1)
	}

	p.SSML = "<speak>hello</speak>"
	url2, err := payloads.UploadPayload(ctx, p)
	if err != nil {
		t.Fatalf("upload v2: %v", err)
	}
	if url2 != "mem://job-1/payload-2.json" {
		t.Fatalf("v2 url = %s", url2)
	}

	// 旧版本保留, 不被覆盖
	old, err := payloads.DownloadPayload(ctx, url1)
	if err != nil {
		t.Fatalf("download v1: %v", err)
	}
	if old.SSML != "" || old.Version != 1 {
		t.Fatalf("v1 was overwritten: %+v", old)
	}

	cur, err := payloads.DownloadPayload(ctx, url2)
	if err != nil {
		t.Fatalf("download v2: %v", err)
	}
	if cur.SSML != "<speak>hello</speak>" || cur.Version != 2 {
		t.Fatalf("unexpected v2 content: %+v", cur)
	}
}

func TestPayloadStoreCorrupted(t *testing.T) {
	store := newMemStorage()
	store.objects["job-1/payload-1.json"] = []byte("{not json")
	payloads := NewObjectPayloadStore(store)

	_, err := payloads.DownloadPayload(context.Background(), "mem://job-1/payload-1.json")
	if !errors.Is(err, errno.ErrPayloadCorrupted) {
		t.Fatalf("expected ErrPayloadCorrupted, got %v", err)
	}
}

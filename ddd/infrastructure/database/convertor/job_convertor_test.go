package convertor

import (
	"testing"
	"time"

	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/vo"
)

func TestJobConvertorRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	job := entity.RestoreJobEntity(
		7, "uuid-1", "some script",
		vo.StepRender, vo.StatusInProgress, 42,
		vo.FileList{{Label: "srt", URL: "http://v/1.srt"}},
		"proj-1", "comp-1", "user-1",
		now, now,
	)

	c := NewJobConvertor()
	jobPo, err := c.EntityToPO(job)
	if err != nil {
		t.Fatalf("EntityToPO: %v", err)
	}
	if jobPo.Files != `[{"srt":"http://v/1.srt"}]` {
		t.Fatalf("files column = %s", jobPo.Files)
	}

	back, err := c.POToEntity(jobPo)
	if err != nil {
		t.Fatalf("POToEntity: %v", err)
	}
	if back.JobUUID() != "uuid-1" || back.Step() != vo.StepRender || back.Progress() != 42 {
		t.Fatalf("round trip mismatch: %+v", back.StatusView())
	}
	if len(back.Files()) != 1 || back.Files()[0].Label != "srt" {
		t.Fatalf("files mismatch: %+v", back.Files())
	}
}

func TestJobConvertorEmptyFiles(t *testing.T) {
	job := entity.NewJobEntity("script", "", "", "user-1")
	c := NewJobConvertor()

	jobPo, err := c.EntityToPO(job)
	if err != nil {
		t.Fatalf("EntityToPO: %v", err)
	}
	// 空文件列表落库写"[]", 不写空串
	if jobPo.Files != "[]" {
		t.Fatalf("empty files column = %q", jobPo.Files)
	}

	back, err := c.POToEntity(jobPo)
	if err != nil {
		t.Fatalf("POToEntity: %v", err)
	}
	if len(back.Files()) != 0 {
		t.Fatalf("expected no files, got %+v", back.Files())
	}
}

func TestJobConvertorBadFilesColumn(t *testing.T) {
	job := entity.NewJobEntity("script", "", "", "user-1")
	c := NewJobConvertor()
	jobPo, _ := c.EntityToPO(job)
	jobPo.Files = "not json"

	if _, err := c.POToEntity(jobPo); err == nil {
		t.Fatal("corrupt files column should fail conversion")
	}
}

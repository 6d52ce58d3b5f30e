package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
)

func TestMemoryQueueEnqueueDequeue(t *testing.T) {
	q := NewMemoryStageQueue(10)
	defer q.Close()
	ctx := context.Background()

	item := &StageItem{JobUUID: "job-1", Stage: vo.StepTTS, PayloadURL: "mem://payload-1"}
	if err := q.Enqueue(ctx, item); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	got, err := q.Dequeue(ctx, vo.StepTTS)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got.JobUUID != "job-1" || got.PayloadURL != "mem://payload-1" {
		t.Fatalf("dequeued item = %+v", got)
	}
	if got.EnqueuedAt.IsZero() {
		t.Error("EnqueuedAt not set on enqueue")
	}
}

func TestMemoryQueueCancelledFlag(t *testing.T) {
	q := NewMemoryStageQueue(10)
	defer q.Close()
	ctx := context.Background()

	item := &StageItem{JobUUID: "job-2", Stage: vo.StepAlign, PayloadURL: "mem://p"}
	if err := q.Enqueue(ctx, item); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.SetCancelled(ctx, vo.StepAlign, "job-2"); err != nil {
		t.Fatalf("SetCancelled: %v", err)
	}

	got, err := q.GetItem(ctx, vo.StepAlign, "job-2")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !got.Cancelled {
		t.Fatal("expected cancelled flag set")
	}
}

func TestMemoryQueueRemoveSkipsDequeue(t *testing.T) {
	q := NewMemoryStageQueue(10)
	defer q.Close()
	ctx := context.Background()

	first := &StageItem{JobUUID: "gone", Stage: vo.StepMusic, PayloadURL: "mem://a"}
	second := &StageItem{JobUUID: "kept", Stage: vo.StepMusic, PayloadURL: "mem://b"}
	if err := q.Enqueue(ctx, first); err != nil {
		t.Fatalf("Enqueue first: %v", err)
	}
	if err := q.Enqueue(ctx, second); err != nil {
		t.Fatalf("Enqueue second: %v", err)
	}
	if err := q.Remove(ctx, vo.StepMusic, "gone"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := q.Dequeue(ctx, vo.StepMusic)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got.JobUUID != "kept" {
		t.Fatalf("expected removed item skipped, got %q", got.JobUUID)
	}
}

func TestMemoryQueueGetItemMissing(t *testing.T) {
	q := NewMemoryStageQueue(10)
	defer q.Close()

	_, err := q.GetItem(context.Background(), vo.StepTTS, "nope")
	if !errors.Is(err, errno.ErrQueueItemMissing) {
		t.Fatalf("expected ErrQueueItemMissing, got %v", err)
	}
}

func TestMemoryQueueDequeueHonorsContext(t *testing.T) {
	q := NewMemoryStageQueue(10)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx, vo.StepRender)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestMemoryQueueProgressIndependent(t *testing.T) {
	q := NewMemoryStageQueue(10)
	defer q.Close()
	ctx := context.Background()

	item := &StageItem{JobUUID: "job-3", Stage: vo.StepComposite, PayloadURL: "mem://p"}
	if err := q.Enqueue(ctx, item); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.ReportProgress(ctx, vo.StepComposite, "job-3", 60); err != nil {
		t.Fatalf("ReportProgress: %v", err)
	}

	got, err := q.GetItem(ctx, vo.StepComposite, "job-3")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Progress != 60 {
		t.Fatalf("progress = %d, want 60", got.Progress)
	}
}

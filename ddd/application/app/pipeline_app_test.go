package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"videogen-service/ddd/application/cqe"
	"videogen-service/ddd/domain/entity"
	"videogen-service/ddd/domain/gateway"
	"videogen-service/ddd/domain/service"
	"videogen-service/ddd/domain/vo"
	"videogen-service/ddd/infrastructure/queue"
	"videogen-service/ddd/infrastructure/storage"
	"videogen-service/ddd/infrastructure/worker"
	"videogen-service/pkg/errno"
)

// fakeJobRepo 内存任务仓储
type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.JobEntity
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.JobEntity)}
}

// cloneJob 模拟真实仓储的行为: 读写都经过一次复制, 调用方拿不到内部指针
func cloneJob(job *entity.JobEntity) *entity.JobEntity {
	return entity.RestoreJobEntity(
		job.ID(), job.JobUUID(), job.Script(),
		job.Step(), job.Status(), job.Progress(), job.Files(),
		job.ProjectUUID(), job.CompanyUUID(), job.UserUUID(),
		job.CreatedAt(), job.UpdatedAt(),
	)
}

func (r *fakeJobRepo) CreateJob(_ context.Context, job *entity.JobEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobUUID()] = cloneJob(job)
	return nil
}

func (r *fakeJobRepo) GetJobByUUID(_ context.Context, jobUUID string) (*entity.JobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobUUID]
	if !ok {
		return nil, errno.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (r *fakeJobRepo) UpdateJob(_ context.Context, job *entity.JobEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobUUID()] = cloneJob(job)
	return nil
}

func (r *fakeJobRepo) UpdateJobStatus(_ context.Context, jobUUID string, status vo.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobUUID]
	if !ok {
		return errno.ErrJobNotFound
	}
	job.ApplyStatus(status)
	return nil
}

func (r *fakeJobRepo) ListJobs(_ context.Context, projectUUID, companyUUID string, limit, offset int) ([]*entity.JobEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.JobEntity, 0, len(r.jobs))
	for _, job := range r.jobs {
		if projectUUID != "" && job.ProjectUUID() != projectUUID {
			continue
		}
		if companyUUID != "" && job.CompanyUUID() != companyUUID {
			continue
		}
		out = append(out, cloneJob(job))
	}
	return out, nil
}

func (r *fakeJobRepo) statusView(jobUUID string) (vo.JobStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobUUID]
	if !ok {
		return vo.JobStatus{}, false
	}
	return job.StatusView(), true
}

// fakeStorage 内存对象存储, URL形如mem://key
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) UploadFile(_ context.Context, localPath, objectKey, _ string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[objectKey] = data
	s.mu.Unlock()
	return "mem://" + objectKey, nil
}

func (s *fakeStorage) UploadBytes(_ context.Context, data []byte, objectKey, _ string) (string, error) {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.objects[objectKey] = cp
	s.mu.Unlock()
	return "mem://" + objectKey, nil
}

func (s *fakeStorage) DownloadFile(_ context.Context, url, localPath string) error {
	data, err := s.get(url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(localPath, data, 0o644)
}

func (s *fakeStorage) DownloadBytes(_ context.Context, url string) ([]byte, error) {
	return s.get(url)
}

func (s *fakeStorage) get(url string) ([]byte, error) {
	key := strings.TrimPrefix(url, "mem://")
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

// --- 各阶段后端的测试替身 ---

type fakeEnhancer struct{}

func (fakeEnhancer) Enhance(_ context.Context, script string) (*gateway.EnhanceResult, error) {
	return &gateway.EnhanceResult{
		SSML:        "<speak>" + script + "</speak>",
		PlainScript: script,
		ImageSpans: []vo.MarkedSpan{
			{Kind: "image", Text: "The Way", Name: "way.png"},
		},
	}, nil
}

type fakeSynthesizer struct{}

func (fakeSynthesizer) Synthesize(_ context.Context, ssml string) ([]byte, error) {
	if ssml == "" {
		return nil, fmt.Errorf("empty ssml")
	}
	return []byte("RIFF-fake-wav"), nil
}

type fakeProber struct{ durationMs int64 }

func (p fakeProber) DurationMs(_ context.Context, _ string) (int64, error) {
	return p.durationMs, nil
}

type fakeRecognizer struct{}

func (fakeRecognizer) Recognize(_ context.Context, _ string) ([]vo.Word, error) {
	words := []vo.Word{
		{Text: "yes", StartMs: 0, EndMs: 570},
		{Text: "the", StartMs: 1590, EndMs: 1707},
		{Text: "way", StartMs: 2000, EndMs: 2300},
		{Text: "will", StartMs: 2500, EndMs: 2750},
		{Text: "not", StartMs: 2900, EndMs: 3100},
		{Text: "change", StartMs: 3300, EndMs: 3700},
	}
	return vo.AppendSentinel(words), nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) SelectVideos(_ context.Context, rows []vo.TextContext) ([]vo.VideoSelection, error) {
	out := make([]vo.VideoSelection, 0, len(rows))
	for i := range rows {
		out = append(out, vo.VideoSelection{RowIndex: i, VideoURL: fmt.Sprintf("http://clips.test/%d.mp4", i)})
	}
	return out, nil
}

// fakeComposer stuck=true时永远running, 用于取消场景
type fakeComposer struct{ stuck bool }

func (c fakeComposer) SubmitJob(_ context.Context, req *gateway.MusicRequest) (string, error) {
	return "music-" + req.JobUUID, nil
}

func (c fakeComposer) GetJobStatus(_ context.Context, _ string) (*gateway.MusicJobStatus, error) {
	if c.stuck {
		return &gateway.MusicJobStatus{State: gateway.MusicJobRunning}, nil
	}
	return &gateway.MusicJobStatus{
		State:    gateway.MusicJobCompleted,
		TrackURL: "http://assets.test/track.mp3",
	}, nil
}

type fakeDownloader struct{}

func (fakeDownloader) Download(_ context.Context, _ string) ([]byte, error) {
	return []byte("ID3-fake-mp3"), nil
}

type fakeCompositor struct{}

func (fakeCompositor) Composite(_ context.Context, req *gateway.CompositeRequest) (string, error) {
	if req.AudioURL == "" {
		return "", fmt.Errorf("missing audio url")
	}
	return "http://videos.test/" + req.JobUUID + ".mp4", nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, req *gateway.RenderRequest) (vo.FileList, error) {
	if req.CompositeVideoURL == "" {
		return nil, fmt.Errorf("missing composite url")
	}
	return vo.FileList{
		{Label: "portrait", URL: "http://videos.test/portrait.mp4"},
		{Label: "landscape", URL: "http://videos.test/landscape.mp4"},
	}, nil
}

type pipelineFixture struct {
	repo     *fakeJobRepo
	app      PipelineApp
	shutdown func()
}

func startPipeline(t *testing.T, stuckMusic bool) *pipelineFixture {
	t.Helper()

	repo := newFakeJobRepo()
	store := newFakeStorage()
	payloads := storage.NewObjectPayloadStore(store)
	stageQueue := queue.NewMemoryStageQueue(16)
	bus := queue.NewEventBus()

	handlers := []service.StageHandler{
		service.NewEnhanceStageService(fakeEnhancer{}),
		service.NewTTSStageService(fakeSynthesizer{}, store),
		service.NewAlignStageService(store, fakeProber{durationMs: 4000}, fakeRecognizer{}, 42, t.TempDir()),
		service.NewContentStageService(fakeAnalyzer{}),
		service.NewMusicStageService(fakeComposer{stuck: stuckMusic}, fakeDownloader{}, store, 10*time.Millisecond, 500, 1, time.Millisecond),
		service.NewCompositeStageService(fakeCompositor{}),
		service.NewRenderStageService(fakeRenderer{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	workers := make([]worker.StageWorker, 0, len(handlers))
	for _, h := range handlers {
		w := worker.NewStageWorker(h, stageQueue, payloads, bus, 1, 1)
		if err := w.Start(ctx); err != nil {
			t.Fatalf("start worker %s: %v", h.Stage(), err)
		}
		workers = append(workers, w)
	}

	NewPipelineCoordinator(repo, stageQueue, bus).Register()
	appSvc := NewPipelineAppWith(repo, payloads, stageQueue, 10000)

	return &pipelineFixture{
		repo: repo,
		app:  appSvc,
		shutdown: func() {
			cancel()
			for _, w := range workers {
				_ = w.Stop()
			}
			_ = stageQueue.Close()
		},
	}
}

func waitForStatus(t *testing.T, repo *fakeJobRepo, jobUUID string, want vo.Status, timeout time.Duration) vo.JobStatus {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		view, ok := repo.statusView(jobUUID)
		if ok && view.Status == want {
			return view
		}
		time.Sleep(5 * time.Millisecond)
	}
	view, _ := repo.statusView(jobUUID)
	t.Fatalf("job %s never reached %s, last view: %+v", jobUUID, want, view)
	return vo.JobStatus{}
}

func waitForStep(t *testing.T, repo *fakeJobRepo, jobUUID string, want vo.Step, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		view, ok := repo.statusView(jobUUID)
		if ok && view.Step == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	view, _ := repo.statusView(jobUUID)
	t.Fatalf("job %s never reached step %s, last view: %+v", jobUUID, want, view)
}

func TestPipelineRunsToCompletion(t *testing.T) {
	fx := startPipeline(t, false)
	defer fx.shutdown()

	resp, err := fx.app.SubmitJob(context.Background(), &cqe.SubmitJobReq{
		Script: "Yes! The Way will not change.",
		Images: []cqe.ImageUploadReq{{Name: "way.png", URL: "http://img.test/way.png"}},
	}, "user-1")
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	view := waitForStatus(t, fx.repo, resp.JobUUID, vo.StatusCompleted, 5*time.Second)
	if view.Step != vo.StepCompleted {
		t.Fatalf("completed job has step %q", view.Step)
	}
	if view.Percentage != 100 {
		t.Fatalf("completed job has percentage %d", view.Percentage)
	}
	if len(view.Files) != 2 {
		t.Fatalf("expected 2 rendered files, got %d: %+v", len(view.Files), view.Files)
	}
	labels := map[string]bool{}
	for _, f := range view.Files {
		labels[f.Label] = true
	}
	if !labels["portrait"] || !labels["landscape"] {
		t.Fatalf("unexpected file labels: %+v", view.Files)
	}
}

func TestPipelineRejectsUnknownImage(t *testing.T) {
	fx := startPipeline(t, false)
	defer fx.shutdown()

	// 增强阶段会标记way.png, 但提交时没登记这张图
	resp, err := fx.app.SubmitJob(context.Background(), &cqe.SubmitJobReq{
		Script: "Yes! The Way will not change.",
	}, "user-1")
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	waitForStatus(t, fx.repo, resp.JobUUID, vo.StatusFailed, 5*time.Second)
}

func TestCancelDuringMusicStage(t *testing.T) {
	fx := startPipeline(t, true)
	defer fx.shutdown()

	resp, err := fx.app.SubmitJob(context.Background(), &cqe.SubmitJobReq{
		Script: "Yes! The Way will not change.",
		Images: []cqe.ImageUploadReq{{Name: "way.png", URL: "http://img.test/way.png"}},
	}, "user-1")
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	waitForStep(t, fx.repo, resp.JobUUID, vo.StepMusic, 5*time.Second)
	if err := fx.app.CancelJob(context.Background(), resp.JobUUID); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}

	waitForStatus(t, fx.repo, resp.JobUUID, vo.StatusDeleted, 5*time.Second)

	// 取消是终态, 不允许复活
	time.Sleep(100 * time.Millisecond)
	view, _ := fx.repo.statusView(resp.JobUUID)
	if view.Status != vo.StatusDeleted {
		t.Fatalf("cancelled job resurrected to %s", view.Status)
	}
	if err := fx.app.CancelJob(context.Background(), resp.JobUUID); err != errno.ErrJobAlreadyDone {
		t.Fatalf("second cancel returned %v", err)
	}
}

func TestSubmitJobValidation(t *testing.T) {
	fx := startPipeline(t, false)
	defer fx.shutdown()

	if _, err := fx.app.SubmitJob(context.Background(), &cqe.SubmitJobReq{}, "user-1"); err != errno.ErrMissingParam {
		t.Fatalf("empty script returned %v", err)
	}

	long := strings.Repeat("a", 10001)
	if _, err := fx.app.SubmitJob(context.Background(), &cqe.SubmitJobReq{Script: long}, "user-1"); err != errno.ErrScriptTooLong {
		t.Fatalf("oversized script returned %v", err)
	}
}

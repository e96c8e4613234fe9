package extract

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/intake-api/internal/core"
	"github.com/hireloop/intake-api/internal/data"
	"github.com/hireloop/intake-api/internal/service"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// memoryJobRepo is an in-memory ParsingJobRepository for worker tests.
type memoryJobRepo struct {
	jobs      map[string]*model.ParsingJob
	order     []string
	candidate map[string]model.ExtractedFields
}

var _ core.ParsingJobRepository = (*memoryJobRepo)(nil)

func newMemoryJobRepo() *memoryJobRepo {
	return &memoryJobRepo{
		jobs:      make(map[string]*model.ParsingJob),
		candidate: make(map[string]model.ExtractedFields),
	}
}

func (r *memoryJobRepo) add(job *model.ParsingJob) {
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
}

func (r *memoryJobRepo) Create(_ context.Context, params core.CreateParsingJobParams) (*model.ParsingJob, error) {
	job := &model.ParsingJob{
		ID:          params.CandidateID + "-job",
		CandidateID: params.CandidateID,
		FilePath:    params.FilePath,
		Status:      model.ParsingJobQueued,
		Method:      params.Method,
	}
	r.add(job)
	return job, nil
}

func (r *memoryJobRepo) GetByID(_ context.Context, id string) (*model.ParsingJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, data.ErrParsingJobNotFound
	}
	return job, nil
}

func (r *memoryJobRepo) ClaimNext(context.Context) (*model.ParsingJob, error) {
	for _, id := range r.order {
		if job := r.jobs[id]; job.Status == model.ParsingJobQueued {
			job.Status = model.ParsingJobProcessing
			return job, nil
		}
	}
	return nil, model.ErrNoJobsQueued
}

func (r *memoryJobRepo) MarkProcessing(_ context.Context, id string) (bool, error) {
	job, ok := r.jobs[id]
	if !ok || job.Status != model.ParsingJobQueued {
		return false, nil
	}
	job.Status = model.ParsingJobProcessing
	return true, nil
}

func (r *memoryJobRepo) Complete(_ context.Context, id string, fields model.ExtractedFields) (bool, error) {
	job, ok := r.jobs[id]
	if !ok || job.Status != model.ParsingJobProcessing {
		return false, nil
	}
	job.Status = model.ParsingJobCompleted
	r.candidate[job.CandidateID] = fields
	return true, nil
}

func (r *memoryJobRepo) Fail(_ context.Context, id, reason string) (bool, error) {
	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return false, nil
	}
	job.Status = model.ParsingJobFailed
	job.FailureReason = &reason
	return true, nil
}

func (r *memoryJobRepo) Stats(context.Context) (*model.ParsingJobStats, error) {
	return &model.ParsingJobStats{}, nil
}

func (r *memoryJobRepo) FailStale(context.Context, core.FailStaleParams) (int, error) {
	return 0, nil
}

func newWorkerForTest(t *testing.T, repo *memoryJobRepo, strategies ...Strategy) *Worker {
	t.Helper()
	jobs := service.MustNewParsingJobService(service.ParsingJobServiceOptions{Repo: repo})
	w, err := NewWorker(WorkerOptions{Jobs: jobs, Strategies: strategies})
	require.NoError(t, err)
	return w
}

func TestNewWorker_Validation(t *testing.T) {
	_, err := NewWorker(WorkerOptions{Strategies: []Strategy{NewPassthroughStrategy()}})
	require.Error(t, err, "jobs service is required")

	jobs := service.MustNewParsingJobService(service.ParsingJobServiceOptions{Repo: newMemoryJobRepo()})
	_, err = NewWorker(WorkerOptions{Jobs: jobs})
	require.Error(t, err, "at least one strategy is required")
}

func TestNewWorker_Defaults(t *testing.T) {
	w := newWorkerForTest(t, newMemoryJobRepo(), NewPassthroughStrategy())
	assert.Equal(t, 1, w.concurrency)
	assert.Equal(t, 2*time.Second, w.pollEvery)
	assert.Equal(t, 10*time.Minute, w.staleAfter)
}

func TestWorker_ProcessOne_Completes(t *testing.T) {
	path := writeTempDoc(t, "Name: Ada Lovelace\nSkills: Go, SQL\n")
	repo := newMemoryJobRepo()
	repo.add(&model.ParsingJob{
		ID:          "job-1",
		CandidateID: "cand-1",
		FilePath:    path,
		Status:      model.ParsingJobQueued,
		Method:      model.ExtractionMethodPassthrough,
	})
	w := newWorkerForTest(t, repo, NewPassthroughStrategy())

	require.NoError(t, w.processOne(context.Background()))
	assert.Equal(t, model.ParsingJobCompleted, repo.jobs["job-1"].Status)
	assert.Equal(t, "Ada Lovelace", repo.candidate["cand-1"].FullName)
	assert.Equal(t, []string{"Go", "SQL"}, repo.candidate["cand-1"].Skills)
}

func TestWorker_ProcessOne_ExtractionFailureFailsJob(t *testing.T) {
	repo := newMemoryJobRepo()
	repo.add(&model.ParsingJob{
		ID:          "job-1",
		CandidateID: "cand-1",
		FilePath:    filepath.Join(t.TempDir(), "missing.txt"),
		Status:      model.ParsingJobQueued,
		Method:      model.ExtractionMethodPassthrough,
	})
	w := newWorkerForTest(t, repo, NewPassthroughStrategy())

	require.NoError(t, w.processOne(context.Background()), "extraction failure terminates the job, not the worker")
	job := repo.jobs["job-1"]
	assert.Equal(t, model.ParsingJobFailed, job.Status)
	require.NotNil(t, job.FailureReason)
	assert.NotEmpty(t, *job.FailureReason)
}

func TestWorker_ProcessOne_NoStrategyForMethod(t *testing.T) {
	repo := newMemoryJobRepo()
	repo.add(&model.ParsingJob{
		ID:          "job-1",
		CandidateID: "cand-1",
		FilePath:    "/tmp/resume.txt",
		Status:      model.ParsingJobQueued,
		Method:      model.ExtractionMethodLLM,
	})
	w := newWorkerForTest(t, repo, NewPassthroughStrategy())

	require.NoError(t, w.processOne(context.Background()))
	job := repo.jobs["job-1"]
	assert.Equal(t, model.ParsingJobFailed, job.Status)
	require.NotNil(t, job.FailureReason)
	assert.Contains(t, *job.FailureReason, "no strategy")
}

func TestWorker_ProcessOne_EmptyQueue(t *testing.T) {
	w := newWorkerForTest(t, newMemoryJobRepo(), NewPassthroughStrategy())

	err := w.processOne(context.Background())
	require.ErrorIs(t, err, model.ErrNoJobsQueued)
}

func TestWorker_Run_StopsOnCancel(t *testing.T) {
	w := newWorkerForTest(t, newMemoryJobRepo(), NewPassthroughStrategy())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/intake-api/internal/core"
	"github.com/hireloop/intake-api/internal/data"
	apperrors "github.com/hireloop/intake-api/internal/errors"
	"github.com/hireloop/intake-api/internal/service"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// fakeParsingJobRepo backs the parsing handlers in tests without a database.
type fakeParsingJobRepo struct {
	jobs     map[string]*model.ParsingJob
	conflict bool
}

var _ core.ParsingJobRepository = (*fakeParsingJobRepo)(nil)

func newFakeParsingJobRepo() *fakeParsingJobRepo {
	return &fakeParsingJobRepo{jobs: make(map[string]*model.ParsingJob)}
}

func (f *fakeParsingJobRepo) Create(_ context.Context, params core.CreateParsingJobParams) (*model.ParsingJob, error) {
	if f.conflict {
		return nil, apperrors.Conflict("An active parsing job already exists for this candidate.")
	}
	job := &model.ParsingJob{
		ID:          "job-1",
		CandidateID: params.CandidateID,
		FilePath:    params.FilePath,
		Status:      model.ParsingJobQueued,
		Method:      params.Method,
	}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeParsingJobRepo) GetByID(_ context.Context, id string) (*model.ParsingJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, data.ErrParsingJobNotFound
	}
	return job, nil
}

func (f *fakeParsingJobRepo) ClaimNext(context.Context) (*model.ParsingJob, error) {
	return nil, model.ErrNoJobsQueued
}

func (f *fakeParsingJobRepo) MarkProcessing(context.Context, string) (bool, error) { return false, nil }

func (f *fakeParsingJobRepo) Complete(context.Context, string, model.ExtractedFields) (bool, error) {
	return false, nil
}

func (f *fakeParsingJobRepo) Fail(context.Context, string, string) (bool, error) { return false, nil }

func (f *fakeParsingJobRepo) Stats(context.Context) (*model.ParsingJobStats, error) {
	return &model.ParsingJobStats{Queued: len(f.jobs)}, nil
}

func (f *fakeParsingJobRepo) FailStale(context.Context, core.FailStaleParams) (int, error) {
	return 0, nil
}

func newParsingRouter(t *testing.T, repo *fakeParsingJobRepo) http.Handler {
	t.Helper()
	return NewRouter(RouterServices{
		ParsingJobs: service.MustNewParsingJobService(service.ParsingJobServiceOptions{Repo: repo}),
	})
}

func TestParsingSubmit(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	body := `{"file_path":"/uploads/resume.pdf","candidate_id":"cand-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"parsing_job_id":"job-1"`)
	assert.Contains(t, rec.Body.String(), `"status":"queued"`)
}

func TestParsingSubmit_InvalidJSON(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/resumes/parse", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestParsingSubmit_UnknownField(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	body := `{"file_path":"/uploads/r.pdf","candidate_id":"c1","resume_id":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestParsingSubmit_ValidationError(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	body := `{"file_path":"","candidate_id":"cand-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation")
}

func TestParsingSubmit_ActiveJobConflict(t *testing.T) {
	repo := newFakeParsingJobRepo()
	repo.conflict = true
	router := newParsingRouter(t, repo)

	body := `{"file_path":"/uploads/resume.pdf","candidate_id":"cand-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflict")
}

func TestParsingSubmit_WrongMethod(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/resumes/parse", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParsingStatus(t *testing.T) {
	repo := newFakeParsingJobRepo()
	repo.jobs["job-1"] = &model.ParsingJob{
		ID:          "job-1",
		CandidateID: "cand-1",
		Status:      model.ParsingJobProcessing,
		Method:      model.ExtractionMethodLLM,
	}
	router := newParsingRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/resumes/parse/status?parsing_job_id=job-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"parsing_job"`)
	assert.Contains(t, rec.Body.String(), `"parsing_job_id":"job-1"`)
	assert.Contains(t, rec.Body.String(), `"candidate_id":"cand-1"`)
	assert.Contains(t, rec.Body.String(), `"status":"processing"`)
}

func TestParsingStatus_MissingParam(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/resumes/parse/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_query")
}

func TestParsingStatus_UnknownJob(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/resumes/parse/status?parsing_job_id=ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestParsingStatus_WrongMethod(t *testing.T) {
	router := newParsingRouter(t, newFakeParsingJobRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/resumes/parse/status?parsing_job_id=job-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParsingStats(t *testing.T) {
	repo := newFakeParsingJobRepo()
	repo.jobs["job-1"] = &model.ParsingJob{ID: "job-1", Status: model.ParsingJobQueued}
	router := newParsingRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/resumes/parse/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queued":1`)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/intake-api/internal/core"
	"github.com/hireloop/intake-api/internal/data"
	apperrors "github.com/hireloop/intake-api/internal/errors"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// fakeParsingJobRepo is a hand-written ParsingJobRepository double.
type fakeParsingJobRepo struct {
	createFunc    func(ctx context.Context, params core.CreateParsingJobParams) (*model.ParsingJob, error)
	getByIDFunc   func(ctx context.Context, id string) (*model.ParsingJob, error)
	claimNextFunc func(ctx context.Context) (*model.ParsingJob, error)
	completeFunc  func(ctx context.Context, id string, fields model.ExtractedFields) (bool, error)
	failFunc      func(ctx context.Context, id, reason string) (bool, error)
	statsFunc     func(ctx context.Context) (*model.ParsingJobStats, error)
	failStaleFunc func(ctx context.Context, params core.FailStaleParams) (int, error)
}

func (f *fakeParsingJobRepo) Create(ctx context.Context, params core.CreateParsingJobParams) (*model.ParsingJob, error) {
	return f.createFunc(ctx, params)
}

func (f *fakeParsingJobRepo) GetByID(ctx context.Context, id string) (*model.ParsingJob, error) {
	return f.getByIDFunc(ctx, id)
}

func (f *fakeParsingJobRepo) ClaimNext(ctx context.Context) (*model.ParsingJob, error) {
	return f.claimNextFunc(ctx)
}

func (f *fakeParsingJobRepo) MarkProcessing(context.Context, string) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeParsingJobRepo) Complete(ctx context.Context, id string, fields model.ExtractedFields) (bool, error) {
	return f.completeFunc(ctx, id, fields)
}

func (f *fakeParsingJobRepo) Fail(ctx context.Context, id, reason string) (bool, error) {
	return f.failFunc(ctx, id, reason)
}

func (f *fakeParsingJobRepo) Stats(ctx context.Context) (*model.ParsingJobStats, error) {
	return f.statsFunc(ctx)
}

func (f *fakeParsingJobRepo) FailStale(ctx context.Context, params core.FailStaleParams) (int, error) {
	return f.failStaleFunc(ctx, params)
}

func newQueuedJob(id, candidateID string) *model.ParsingJob {
	now := time.Now().UTC()
	return &model.ParsingJob{
		ID:          id,
		CandidateID: candidateID,
		FilePath:    "/tmp/resume.txt",
		Status:      model.ParsingJobQueued,
		Method:      model.ExtractionMethodLLM,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestNewParsingJobService_RequiresRepo(t *testing.T) {
	_, err := NewParsingJobService(ParsingJobServiceOptions{})
	require.Error(t, err)
}

func TestNewParsingJobService_RejectsUnknownMethod(t *testing.T) {
	_, err := NewParsingJobService(ParsingJobServiceOptions{
		Repo:   &fakeParsingJobRepo{},
		Method: "ocr",
	})
	require.Error(t, err)
}

func TestParsingJobService_Submit(t *testing.T) {
	var gotParams core.CreateParsingJobParams
	repo := &fakeParsingJobRepo{
		createFunc: func(_ context.Context, params core.CreateParsingJobParams) (*model.ParsingJob, error) {
			gotParams = params
			return newQueuedJob("job-1", params.CandidateID), nil
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	job, err := svc.Submit(context.Background(), &model.SubmitParsingJobRequest{
		FilePath:    "/tmp/resume.txt",
		CandidateID: "cand-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, model.ParsingJobQueued, job.Status)
	assert.Equal(t, "cand-1", gotParams.CandidateID)
	assert.Equal(t, model.ExtractionMethodLLM, gotParams.Method)
}

func TestParsingJobService_Submit_ValidationErrors(t *testing.T) {
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: &fakeParsingJobRepo{}})

	tests := []struct {
		name string
		req  *model.SubmitParsingJobRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing file path", req: &model.SubmitParsingJobRequest{CandidateID: "c1"}},
		{name: "missing candidate id", req: &model.SubmitParsingJobRequest{FilePath: "/tmp/r.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestParsingJobService_Submit_ConflictPassesThrough(t *testing.T) {
	repo := &fakeParsingJobRepo{
		createFunc: func(context.Context, core.CreateParsingJobParams) (*model.ParsingJob, error) {
			return nil, apperrors.Conflict("An active parsing job already exists for this candidate.")
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	_, err := svc.Submit(context.Background(), &model.SubmitParsingJobRequest{
		FilePath:    "/tmp/resume.txt",
		CandidateID: "cand-1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), "expected conflict error, got %v", err)
}

func TestParsingJobService_GetStatus(t *testing.T) {
	started := time.Now().UTC()
	repo := &fakeParsingJobRepo{
		getByIDFunc: func(_ context.Context, id string) (*model.ParsingJob, error) {
			job := newQueuedJob(id, "cand-1")
			job.Status = model.ParsingJobProcessing
			job.StartedAt = &started
			return job, nil
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	status, err := svc.GetStatus(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", status.ID)
	assert.Equal(t, "cand-1", status.CandidateID)
	assert.Equal(t, model.ParsingJobProcessing, status.Status)
	require.NotNil(t, status.StartedAt)
}

func TestParsingJobService_GetStatus_Missing(t *testing.T) {
	repo := &fakeParsingJobRepo{
		getByIDFunc: func(context.Context, string) (*model.ParsingJob, error) {
			return nil, data.ErrParsingJobNotFound
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	_, err := svc.GetStatus(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "expected not found, got %v", err)

	_, err = svc.GetStatus(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "blank id must be a validation error, got %v", err)
}

func TestParsingJobService_Complete_Conflict(t *testing.T) {
	repo := &fakeParsingJobRepo{
		completeFunc: func(context.Context, string, model.ExtractedFields) (bool, error) {
			return false, nil
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	err := svc.Complete(context.Background(), "job-1", model.ExtractedFields{FullName: "Ada"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), "completing a non-processing job must conflict, got %v", err)
}

func TestParsingJobService_Fail(t *testing.T) {
	var gotReason string
	repo := &fakeParsingJobRepo{
		failFunc: func(_ context.Context, _, reason string) (bool, error) {
			gotReason = reason
			return true, nil
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	require.NoError(t, svc.Fail(context.Background(), "job-1", "document unreadable"))
	assert.Equal(t, "document unreadable", gotReason)
}

func TestParsingJobService_Fail_AlreadyTerminal(t *testing.T) {
	repo := &fakeParsingJobRepo{
		failFunc: func(context.Context, string, string) (bool, error) {
			return false, nil
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	err := svc.Fail(context.Background(), "job-1", "too late")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestParsingJobService_ClaimNext_Empty(t *testing.T) {
	repo := &fakeParsingJobRepo{
		claimNextFunc: func(context.Context) (*model.ParsingJob, error) {
			return nil, model.ErrNoJobsQueued
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	_, err := svc.ClaimNext(context.Background())
	require.ErrorIs(t, err, model.ErrNoJobsQueued)
}

func TestParsingJobService_FailStale(t *testing.T) {
	var gotParams core.FailStaleParams
	repo := &fakeParsingJobRepo{
		failStaleFunc: func(_ context.Context, params core.FailStaleParams) (int, error) {
			gotParams = params
			return 3, nil
		},
	}
	svc := MustNewParsingJobService(ParsingJobServiceOptions{Repo: repo})

	n, err := svc.FailStale(context.Background(), 600, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 600, gotParams.MaxAgeSeconds)
	assert.Equal(t, 100, gotParams.Limit)
	assert.NotEmpty(t, gotParams.Reason)
}

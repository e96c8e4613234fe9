package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hireloop/intake-api/internal/core"
	"github.com/hireloop/intake-api/internal/data"
	apperrors "github.com/hireloop/intake-api/internal/errors"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// ParsingJobServiceOptions groups dependencies for ParsingJobService.
type ParsingJobServiceOptions struct {
	Repo   core.ParsingJobRepository // Required: parsing job repository
	Method model.ExtractionMethod    // Optional: extraction method recorded on new jobs (default llm)
	Logger *slog.Logger              // Optional: structured logger
}

// ParsingJobService tracks the lifecycle of asynchronous resume parsing jobs.
//
// The status machine is strictly forward (queued → processing → completed|failed)
// and the repository enforces every transition with a status-guarded UPDATE, so
// concurrent workers cannot move a job backwards or double-terminate it.
type ParsingJobService struct {
	repo   core.ParsingJobRepository
	method model.ExtractionMethod
	logger *slog.Logger
}

// NewParsingJobService constructs a new ParsingJobService.
func NewParsingJobService(opts ParsingJobServiceOptions) (*ParsingJobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ParsingJobRepository is required")
	}

	method := opts.Method
	if method == "" {
		method = model.ExtractionMethodLLM
	}
	if !method.Valid() {
		return nil, fmt.Errorf("invalid extraction method: %q", method)
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "parsing_job_service")
	}

	return &ParsingJobService{
		repo:   opts.Repo,
		method: method,
		logger: logger,
	}, nil
}

// MustNewParsingJobService constructs a new ParsingJobService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewParsingJobService(opts ParsingJobServiceOptions) *ParsingJobService {
	svc, err := NewParsingJobService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create ParsingJobService: %v", err))
	}
	return svc
}

// Submit validates the request and enqueues a parsing job for the candidate.
// A second submission while a non-terminal job exists for the same candidate
// returns a Conflict error; callers decide whether to surface or retry later.
func (s *ParsingJobService) Submit(ctx context.Context, req *model.SubmitParsingJobRequest) (*model.ParsingJob, error) {
	if req == nil {
		return nil, apperrors.Validation("submit request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	job, err := s.repo.Create(ctx, core.CreateParsingJobParams{
		CandidateID:   req.CandidateID,
		ApplicationID: req.ApplicationID,
		FilePath:      req.FilePath,
		Method:        s.method,
	})
	if err != nil {
		return nil, fmt.Errorf("submit parsing job for candidate %s: %w", req.CandidateID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "parsing job submitted",
			"parsing_job_id", job.ID,
			"candidate_id", job.CandidateID,
			"method", job.Method,
		)
	}
	return job, nil
}

// GetStatus returns the full job record for a parsing job, including the
// candidate it belongs to.
func (s *ParsingJobService) GetStatus(ctx context.Context, jobID string) (*model.ParsingJob, error) {
	if jobID == "" {
		return nil, apperrors.ValidationField("parsing_job_id", "parsing job id is required")
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, data.ErrParsingJobNotFound) {
			return nil, apperrors.NotFoundf("parsing job %s not found", jobID)
		}
		return nil, fmt.Errorf("get parsing job %s: %w", jobID, err)
	}

	return job, nil
}

// ClaimNext moves the oldest queued job to processing on behalf of a worker.
func (s *ParsingJobService) ClaimNext(ctx context.Context) (*model.ParsingJob, error) {
	job, err := s.repo.ClaimNext(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoJobsQueued) {
			return nil, err
		}
		return nil, fmt.Errorf("claim next parsing job: %w", err)
	}
	return job, nil
}

// Complete atomically records extraction output: the job becomes completed and
// the candidate's extracted fields are written in the same transaction.
// A job no longer in processing status yields a Conflict error.
func (s *ParsingJobService) Complete(ctx context.Context, jobID string, fields model.ExtractedFields) error {
	ok, err := s.repo.Complete(ctx, jobID, fields)
	if err != nil {
		return fmt.Errorf("complete parsing job %s: %w", jobID, err)
	}
	if !ok {
		return apperrors.Conflictf("parsing job %s is not processing; cannot complete", jobID)
	}
	return nil
}

// Fail marks a non-terminal job as failed with the given reason.
// A job already terminal yields a Conflict error.
func (s *ParsingJobService) Fail(ctx context.Context, jobID, reason string) error {
	ok, err := s.repo.Fail(ctx, jobID, reason)
	if err != nil {
		return fmt.Errorf("fail parsing job %s: %w", jobID, err)
	}
	if !ok {
		return apperrors.Conflictf("parsing job %s is already terminal; cannot fail", jobID)
	}

	if s.logger != nil {
		s.logger.WarnContext(ctx, "parsing job failed",
			"parsing_job_id", jobID,
			"reason", reason,
		)
	}
	return nil
}

// Stats returns parsing job counts per status.
func (s *ParsingJobService) Stats(ctx context.Context) (*model.ParsingJobStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing job stats: %w", err)
	}
	return stats, nil
}

// FailStale fails processing jobs older than maxAgeSeconds so crashed workers
// cannot strand jobs in a non-terminal state forever.
func (s *ParsingJobService) FailStale(ctx context.Context, maxAgeSeconds, limit int) (int, error) {
	n, err := s.repo.FailStale(ctx, core.FailStaleParams{
		MaxAgeSeconds: maxAgeSeconds,
		Limit:         limit,
		Reason:        "extraction timed out",
	})
	if err != nil {
		return 0, fmt.Errorf("fail stale parsing jobs: %w", err)
	}
	if n > 0 && s.logger != nil {
		s.logger.WarnContext(ctx, "failed stale parsing jobs", "count", n)
	}
	return n, nil
}

package core

import (
	"context"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ParsingJobRepository defines the interface for parsing job data operations.
type ParsingJobRepository interface {
	// Create inserts a queued job. A non-terminal job already existing for the
	// candidate surfaces as a Conflict error.
	Create(ctx context.Context, params CreateParsingJobParams) (*model.ParsingJob, error)
	GetByID(ctx context.Context, id string) (*model.ParsingJob, error)
	// ClaimNext atomically moves the oldest queued job to processing and returns it.
	// Returns model.ErrNoJobsQueued when nothing is queued.
	ClaimNext(ctx context.Context) (*model.ParsingJob, error)
	// MarkProcessing transitions a specific queued job to processing.
	// Returns false when the job was not in queued status.
	MarkProcessing(ctx context.Context, id string) (bool, error)
	// Complete atomically sets the job to completed and applies the extracted
	// fields to the candidate in one transaction. Returns false when the job
	// was not in processing status (the candidate is left untouched).
	Complete(ctx context.Context, id string, fields model.ExtractedFields) (bool, error)
	// Fail sets a non-terminal job to failed with the given reason.
	// Returns false when the job was already terminal.
	Fail(ctx context.Context, id, reason string) (bool, error)
	Stats(ctx context.Context) (*model.ParsingJobStats, error)
	// FailStale fails processing jobs older than maxAge and returns how many were failed.
	FailStale(ctx context.Context, params FailStaleParams) (int, error)
}

// CreateParsingJobParams groups parameters for ParsingJobRepository.Create (≤3 params rule).
type CreateParsingJobParams struct {
	CandidateID   string
	ApplicationID *string
	FilePath      string
	Method        model.ExtractionMethod
}

// FailStaleParams groups parameters for ParsingJobRepository.FailStale.
type FailStaleParams struct {
	MaxAgeSeconds int
	Limit         int
	Reason        string
}

// CandidateRepository defines the interface for candidate data operations.
type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*model.CandidateProfile, error)
	Create(ctx context.Context, candidate *model.CandidateProfile) (*model.CandidateProfile, error)
	// ApplyExtractedFields overwrites the candidate's extracted profile fields.
	// Used by ParsingJobRepository.Complete inside the completion transaction
	// and exposed here for reprocessing tooling.
	ApplyExtractedFields(ctx context.Context, id string, fields model.ExtractedFields) error
}

// Package model defines the core data types and structures used throughout the intake system.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ParsingJobStatus represents the current status of a resume parsing job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ParsingJobStatus string

// ExtractionMethod identifies the strategy used to extract structured fields
// from a submitted resume document.
type ExtractionMethod string

const (
	// ParsingJobQueued indicates a job is waiting to be picked up by an extractor.
	ParsingJobQueued ParsingJobStatus = "queued"
	// ParsingJobProcessing indicates extraction is in progress.
	ParsingJobProcessing ParsingJobStatus = "processing"
	// ParsingJobCompleted indicates extraction finished and candidate fields were written.
	ParsingJobCompleted ParsingJobStatus = "completed"
	// ParsingJobFailed indicates extraction failed; FailureReason carries the cause.
	ParsingJobFailed ParsingJobStatus = "failed"

	// ExtractionMethodLLM extracts fields with the configured generation model.
	ExtractionMethodLLM ExtractionMethod = "llm"
	// ExtractionMethodPassthrough scrapes fields from plain text heuristically.
	ExtractionMethodPassthrough ExtractionMethod = "passthrough"
)

// ErrNoJobsQueued is returned when no queued jobs are available to claim.
var ErrNoJobsQueued = errors.New("no queued jobs available")

// UnmarshalText implements encoding.TextUnmarshaler for ParsingJobStatus to allow env parsing.
func (s *ParsingJobStatus) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	st := ParsingJobStatus(v)
	if st.Valid() {
		*s = st
		return nil
	}
	return fmt.Errorf("invalid ParsingJobStatus: %q", v)
}

// Valid returns true if the ParsingJobStatus is valid.
func (s ParsingJobStatus) Valid() bool {
	return s == ParsingJobQueued || s == ParsingJobProcessing || s == ParsingJobCompleted ||
		s == ParsingJobFailed
}

// Terminal returns true if the status admits no further transitions.
func (s ParsingJobStatus) Terminal() bool {
	return s == ParsingJobCompleted || s == ParsingJobFailed
}

// CanTransitionTo reports whether moving from s to next is a legal forward transition.
// The machine is strictly forward: queued → processing → {completed, failed}.
func (s ParsingJobStatus) CanTransitionTo(next ParsingJobStatus) bool {
	switch s {
	case ParsingJobQueued:
		return next == ParsingJobProcessing || next == ParsingJobFailed
	case ParsingJobProcessing:
		return next == ParsingJobCompleted || next == ParsingJobFailed
	default:
		return false
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for ExtractionMethod.
func (m *ExtractionMethod) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	em := ExtractionMethod(v)
	if em.Valid() {
		*m = em
		return nil
	}
	return fmt.Errorf("invalid ExtractionMethod: %q", v)
}

// Valid returns true if the ExtractionMethod is valid.
func (m ExtractionMethod) Valid() bool {
	return m == ExtractionMethodLLM || m == ExtractionMethodPassthrough
}

// ParsingJob represents one asynchronous resume extraction run for a candidate.
type ParsingJob struct {
	ID            string           `json:"parsing_job_id"           db:"id"`
	CandidateID   string           `json:"candidate_id"             db:"candidate_id"`
	ApplicationID *string          `json:"application_id,omitempty" db:"application_id"`
	FilePath      string           `json:"file_path"                db:"file_path"`
	Status        ParsingJobStatus `json:"status"                   db:"status"`
	Method        ExtractionMethod `json:"method"                   db:"method"`
	FailureReason *string          `json:"failure_reason,omitempty" db:"failure_reason"`
	StartedAt     *time.Time       `json:"started_at,omitempty"     db:"started_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"   db:"completed_at"`
	CreatedAt     time.Time        `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"               db:"updated_at"`
}

// SubmitParsingJobRequest represents a request to enqueue a resume for extraction.
type SubmitParsingJobRequest struct {
	FilePath      string  `json:"file_path"`
	CandidateID   string  `json:"candidate_id"`
	ApplicationID *string `json:"application_id,omitempty"`
}

// Validate validates the SubmitParsingJobRequest fields.
func (r *SubmitParsingJobRequest) Validate() error {
	if strings.TrimSpace(r.FilePath) == "" {
		return errors.New("file path is required")
	}
	if strings.TrimSpace(r.CandidateID) == "" {
		return errors.New("candidate id is required")
	}
	if r.ApplicationID != nil && strings.TrimSpace(*r.ApplicationID) == "" {
		return errors.New("application id must not be blank when provided")
	}
	return nil
}

// ParsingJobStats represents counts of parsing jobs in each state.
type ParsingJobStats struct {
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

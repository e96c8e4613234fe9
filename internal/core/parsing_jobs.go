// Package core provides the business logic contracts for the intake system.
package core

import (
	"github.com/hireloop/intake-api/internal/domain/model"
)

// ParsingJob represents a resume parsing job (re-exported from the model package).
// Re-exported here for use in HTTP handlers to avoid direct coupling to the model package.
type ParsingJob = model.ParsingJob

// SubmitParsingJobRequest represents a request to enqueue a resume for extraction
// (re-exported from the model package).
type SubmitParsingJobRequest = model.SubmitParsingJobRequest

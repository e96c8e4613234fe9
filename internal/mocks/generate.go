// Package mocks provides mock implementations for testing the intake API.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockParsingJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for ParsingJobRepository interface from internal/core package.
// This creates MockParsingJobRepository with methods for all ParsingJobRepository interface methods:
// Create, GetByID, ClaimNext, MarkProcessing, Complete, Fail, Stats, FailStale
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=parsing_job_repository_mock.go github.com/hireloop/intake-api/internal/core ParsingJobRepository

// Generate mock for CandidateRepository interface from internal/core package.
// This creates MockCandidateRepository with methods for all CandidateRepository interface methods:
// GetByID, Create, ApplyExtractedFields
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=candidate_repository_mock.go github.com/hireloop/intake-api/internal/core CandidateRepository

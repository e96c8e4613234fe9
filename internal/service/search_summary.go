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

// SearchSummaryServiceOptions groups dependencies for SearchSummaryService.
type SearchSummaryServiceOptions struct {
	Candidates  core.CandidateRepository // Required: candidate repository
	Interpreter *RequirementInterpreter  // Required: requirement interpretation
	Explainer   *MatchExplainer          // Required: match explanation
	Logger      *slog.Logger             // Optional: structured logger
}

// SearchSummaryService orchestrates the authenticated search-summary flow:
// candidate lookup, requirement interpretation, then match explanation.
// Authentication is enforced by HTTP middleware before this service runs.
type SearchSummaryService struct {
	candidates  core.CandidateRepository
	interpreter *RequirementInterpreter
	explainer   *MatchExplainer
	logger      *slog.Logger
}

// NewSearchSummaryService constructs a new SearchSummaryService.
func NewSearchSummaryService(opts SearchSummaryServiceOptions) (*SearchSummaryService, error) {
	if opts.Candidates == nil {
		return nil, errors.New("CandidateRepository is required")
	}
	if opts.Interpreter == nil {
		return nil, errors.New("RequirementInterpreter is required")
	}
	if opts.Explainer == nil {
		return nil, errors.New("MatchExplainer is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "search_summary_service")
	}

	return &SearchSummaryService{
		candidates:  opts.Candidates,
		interpreter: opts.Interpreter,
		explainer:   opts.Explainer,
		logger:      logger,
	}, nil
}

// MustNewSearchSummaryService constructs a new SearchSummaryService and panics on error.
func MustNewSearchSummaryService(opts SearchSummaryServiceOptions) *SearchSummaryService {
	svc, err := NewSearchSummaryService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create SearchSummaryService: %v", err))
	}
	return svc
}

// Summarize runs the search-summary flow for one candidate.
// Order matters: candidate lookup happens before any generation work so an
// unknown candidate costs nothing and surfaces as NotFound.
func (s *SearchSummaryService) Summarize(ctx context.Context, req *model.SearchSummaryRequest) (*model.SearchSummaryResponse, error) {
	if req == nil {
		return nil, apperrors.Validation("search summary request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	candidate, err := s.candidates.GetByID(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, data.ErrCandidateNotFound) || apperrors.IsNotFound(err) {
			return nil, apperrors.NotFoundf("candidate %s not found", req.CandidateID)
		}
		return nil, fmt.Errorf("get candidate %s: %w", req.CandidateID, err)
	}

	requirement := s.interpreter.Interpret(ctx, req.RequirementText())
	summary := s.explainer.Explain(ctx, candidate, requirement)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "search summary generated",
			"candidate_id", candidate.ID,
			"kind", req.Kind,
			"structured", requirement.Structured(),
		)
	}

	return &model.SearchSummaryResponse{
		CandidateID: candidate.ID,
		Summary:     summary,
	}, nil
}

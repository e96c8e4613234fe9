package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/intake-api/internal/data"
	apperrors "github.com/hireloop/intake-api/internal/errors"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// fakeCandidateRepo is a hand-written CandidateRepository double.
type fakeCandidateRepo struct {
	candidates map[string]*model.CandidateProfile
}

func (f *fakeCandidateRepo) GetByID(_ context.Context, id string) (*model.CandidateProfile, error) {
	c, ok := f.candidates[id]
	if !ok {
		return nil, data.ErrCandidateNotFound
	}
	return c, nil
}

func (f *fakeCandidateRepo) Create(_ context.Context, candidate *model.CandidateProfile) (*model.CandidateProfile, error) {
	return candidate, nil
}

func (f *fakeCandidateRepo) ApplyExtractedFields(context.Context, string, model.ExtractedFields) error {
	return nil
}

func newSearchSummaryService(t *testing.T, candidates *fakeCandidateRepo, gen *fakeGenerator) *SearchSummaryService {
	t.Helper()
	return MustNewSearchSummaryService(SearchSummaryServiceOptions{
		Candidates:  candidates,
		Interpreter: MustNewRequirementInterpreter(RequirementInterpreterOptions{Generator: gen}),
		Explainer:   MustNewMatchExplainer(MatchExplainerOptions{Generator: gen}),
	})
}

func TestNewSearchSummaryService_RequiresDependencies(t *testing.T) {
	_, err := NewSearchSummaryService(SearchSummaryServiceOptions{})
	require.Error(t, err)
}

func TestSearchSummaryService_Summarize(t *testing.T) {
	repo := &fakeCandidateRepo{candidates: map[string]*model.CandidateProfile{
		"cand-1": testCandidate(),
	}}
	gen := &fakeGenerator{response: "Strong backend fit with matching Go experience."}
	svc := newSearchSummaryService(t, repo, gen)

	resp, err := svc.Summarize(context.Background(), &model.SearchSummaryRequest{
		CandidateID: "cand-1",
		Kind:        "smart",
		Query:       "senior go engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, "cand-1", resp.CandidateID)
	assert.Equal(t, "Strong backend fit with matching Go experience.", resp.Summary)

	// One call to interpret, one call to explain.
	assert.Len(t, gen.prompts, 2)
}

func TestSearchSummaryService_Summarize_ValidationErrors(t *testing.T) {
	svc := newSearchSummaryService(t, &fakeCandidateRepo{}, &fakeGenerator{})

	tests := []struct {
		name string
		req  *model.SearchSummaryRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing candidate id", req: &model.SearchSummaryRequest{Kind: "smart"}},
		{name: "unknown kind", req: &model.SearchSummaryRequest{CandidateID: "c1", Kind: "fuzzy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Summarize(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestSearchSummaryService_Summarize_UnknownCandidate(t *testing.T) {
	gen := &fakeGenerator{response: "should never be used"}
	svc := newSearchSummaryService(t, &fakeCandidateRepo{}, gen)

	_, err := svc.Summarize(context.Background(), &model.SearchSummaryRequest{
		CandidateID: "ghost",
		Kind:        "smart",
		Query:       "anything",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "expected not found, got %v", err)
	assert.Empty(t, gen.prompts, "unknown candidate must not trigger generation")
}

func TestSearchSummaryService_Summarize_GenerationUnavailable(t *testing.T) {
	repo := &fakeCandidateRepo{candidates: map[string]*model.CandidateProfile{
		"cand-1": testCandidate(),
	}}
	gen := &fakeGenerator{err: assert.AnError}
	svc := newSearchSummaryService(t, repo, gen)

	resp, err := svc.Summarize(context.Background(), &model.SearchSummaryRequest{
		CandidateID: "cand-1",
		Kind:        "jd",
		JD:          "We are hiring a backend engineer with Go experience.",
	})
	require.NoError(t, err, "generation failure must not surface as an error")
	assert.Equal(t, SummaryUnavailable, resp.Summary)
}

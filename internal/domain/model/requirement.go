package model

import (
	"errors"
	"fmt"
	"strings"
)

// RequirementKind distinguishes the two free-text inputs a search summary accepts.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type RequirementKind string

const (
	// RequirementKindSmart is a short recruiter search query ("smart" in the API,
	// "query" accepted as a legacy alias).
	RequirementKindSmart RequirementKind = "smart"
	// RequirementKindJD is a full job description.
	RequirementKindJD RequirementKind = "jd"
)

// UnmarshalText implements encoding.TextUnmarshaler for RequirementKind.
func (k *RequirementKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	if v == "query" {
		v = string(RequirementKindSmart)
	}
	rk := RequirementKind(v)
	if rk.Valid() {
		*k = rk
		return nil
	}
	return fmt.Errorf("invalid RequirementKind: %q", v)
}

// Valid returns true if the RequirementKind is valid.
func (k RequirementKind) Valid() bool {
	return k == RequirementKindSmart || k == RequirementKindJD
}

// StructuredRequirement is the normalized form of a free-text hiring requirement.
// RawText is always populated; the remaining fields are best-effort and may be
// empty when interpretation degraded to the raw text alone.
type StructuredRequirement struct {
	RawText            string   `json:"raw_text"`
	Role               string   `json:"role,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	Location           string   `json:"location,omitempty"`
	MinExperienceYears float64  `json:"min_experience_years,omitempty"`
	Seniority          string   `json:"seniority,omitempty"`
}

// Structured reports whether interpretation produced anything beyond the raw text.
func (r StructuredRequirement) Structured() bool {
	return r.Role != "" || len(r.Skills) > 0 || r.Location != "" ||
		r.MinExperienceYears > 0 || r.Seniority != ""
}

// SearchSummaryRequest represents a request for a candidate match summary.
type SearchSummaryRequest struct {
	CandidateID string          `json:"candidateId"`
	Kind        RequirementKind `json:"type"`
	Query       string          `json:"query,omitempty"`
	JD          string          `json:"jd,omitempty"`
}

// Validate validates the SearchSummaryRequest fields and normalizes the kind.
// JSON decoding does not run UnmarshalText on struct fields, so the legacy
// "query" alias is folded here.
func (r *SearchSummaryRequest) Validate() error {
	if strings.TrimSpace(r.CandidateID) == "" {
		return errors.New("candidateId is required")
	}
	kind := RequirementKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	if kind == "query" {
		kind = RequirementKindSmart
	}
	if !kind.Valid() {
		return errors.New("type must be one of: smart, query, jd")
	}
	r.Kind = kind
	return nil
}

// RequirementText returns the free text matching the request kind.
func (r *SearchSummaryRequest) RequirementText() string {
	if r.Kind == RequirementKindJD {
		return r.JD
	}
	return r.Query
}

// SearchSummaryResponse is the public shape of a generated match summary.
type SearchSummaryResponse struct {
	CandidateID string `json:"candidateId"`
	Summary     string `json:"summary"`
}

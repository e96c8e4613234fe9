package model

import (
	"encoding/json"
	"testing"
)

func TestSearchSummaryRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchSummaryRequest
		wantErr  bool
		wantKind RequirementKind
	}{
		{
			name:     "smart kind",
			req:      SearchSummaryRequest{CandidateID: "c1", Kind: "smart"},
			wantKind: RequirementKindSmart,
		},
		{
			name:     "jd kind",
			req:      SearchSummaryRequest{CandidateID: "c1", Kind: "jd"},
			wantKind: RequirementKindJD,
		},
		{
			name:     "legacy query alias folds to smart",
			req:      SearchSummaryRequest{CandidateID: "c1", Kind: "query"},
			wantKind: RequirementKindSmart,
		},
		{
			name:     "kind is case and space insensitive",
			req:      SearchSummaryRequest{CandidateID: "c1", Kind: "  JD "},
			wantKind: RequirementKindJD,
		},
		{
			name:    "missing candidate id",
			req:     SearchSummaryRequest{Kind: "smart"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			req:     SearchSummaryRequest{CandidateID: "c1", Kind: "fuzzy"},
			wantErr: true,
		},
		{
			name:    "empty kind",
			req:     SearchSummaryRequest{CandidateID: "c1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.req.Kind != tt.wantKind {
				t.Errorf("Validate() normalized kind = %q, want %q", tt.req.Kind, tt.wantKind)
			}
		})
	}
}

// The JSON decoder does not run UnmarshalText on struct fields, so alias
// folding has to survive a plain decode-then-validate round.
func TestSearchSummaryRequest_DecodeThenValidate(t *testing.T) {
	var req SearchSummaryRequest
	body := `{"candidateId":"c1","type":"query","query":"senior go engineer"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.Kind != RequirementKindSmart {
		t.Fatalf("kind = %q, want %q", req.Kind, RequirementKindSmart)
	}
}

func TestSearchSummaryRequest_RequirementText(t *testing.T) {
	req := SearchSummaryRequest{Kind: RequirementKindSmart, Query: "go dev", JD: "long description"}
	if got := req.RequirementText(); got != "go dev" {
		t.Fatalf("smart kind should read query, got %q", got)
	}

	req.Kind = RequirementKindJD
	if got := req.RequirementText(); got != "long description" {
		t.Fatalf("jd kind should read jd, got %q", got)
	}
}

func TestStructuredRequirement_Structured(t *testing.T) {
	if (StructuredRequirement{RawText: "anything"}).Structured() {
		t.Fatal("raw text alone is not structured")
	}
	if !(StructuredRequirement{Role: "engineer"}).Structured() {
		t.Fatal("role makes it structured")
	}
	if !(StructuredRequirement{Skills: []string{"go"}}).Structured() {
		t.Fatal("skills make it structured")
	}
	if !(StructuredRequirement{MinExperienceYears: 3}).Structured() {
		t.Fatal("experience makes it structured")
	}
}

func TestCandidateProfile_HasSkill(t *testing.T) {
	c := CandidateProfile{Skills: []string{"Go", " PostgreSQL "}}
	if !c.HasSkill("go") {
		t.Fatal("skill match must be case-insensitive")
	}
	if !c.HasSkill("postgresql") {
		t.Fatal("skill match must trim spaces")
	}
	if c.HasSkill("rust") {
		t.Fatal("missing skill must not match")
	}
	if c.HasSkill("  ") {
		t.Fatal("blank query must not match")
	}
}

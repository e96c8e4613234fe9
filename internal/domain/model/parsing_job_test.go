package model

import (
	"testing"
)

func TestParsingJobStatus_Valid(t *testing.T) {
	valid := []ParsingJobStatus{ParsingJobQueued, ParsingJobProcessing, ParsingJobCompleted, ParsingJobFailed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []ParsingJobStatus{"", "done", "QUEUED "} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestParsingJobStatus_Terminal(t *testing.T) {
	if ParsingJobQueued.Terminal() || ParsingJobProcessing.Terminal() {
		t.Fatal("queued and processing must not be terminal")
	}
	if !ParsingJobCompleted.Terminal() || !ParsingJobFailed.Terminal() {
		t.Fatal("completed and failed must be terminal")
	}
}

func TestParsingJobStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from ParsingJobStatus
		to   ParsingJobStatus
		want bool
	}{
		{ParsingJobQueued, ParsingJobProcessing, true},
		{ParsingJobQueued, ParsingJobFailed, true},
		{ParsingJobQueued, ParsingJobCompleted, false},
		{ParsingJobQueued, ParsingJobQueued, false},
		{ParsingJobProcessing, ParsingJobCompleted, true},
		{ParsingJobProcessing, ParsingJobFailed, true},
		{ParsingJobProcessing, ParsingJobQueued, false},
		{ParsingJobCompleted, ParsingJobFailed, false},
		{ParsingJobCompleted, ParsingJobProcessing, false},
		{ParsingJobFailed, ParsingJobQueued, false},
		{ParsingJobFailed, ParsingJobCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParsingJobStatus_UnmarshalText(t *testing.T) {
	var s ParsingJobStatus
	if err := s.UnmarshalText([]byte("  Processing ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != ParsingJobProcessing {
		t.Fatalf("got %q, want %q", s, ParsingJobProcessing)
	}

	if err := s.UnmarshalText([]byte("cancelled")); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestExtractionMethod_UnmarshalText(t *testing.T) {
	var m ExtractionMethod
	if err := m.UnmarshalText([]byte("LLM")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != ExtractionMethodLLM {
		t.Fatalf("got %q, want %q", m, ExtractionMethodLLM)
	}

	if err := m.UnmarshalText([]byte("ocr")); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestSubmitParsingJobRequest_Validate(t *testing.T) {
	appID := "app-1"
	blank := "   "

	tests := []struct {
		name    string
		req     SubmitParsingJobRequest
		wantErr bool
	}{
		{
			name: "valid without application id",
			req:  SubmitParsingJobRequest{FilePath: "/tmp/resume.txt", CandidateID: "c1"},
		},
		{
			name: "valid with application id",
			req:  SubmitParsingJobRequest{FilePath: "/tmp/resume.txt", CandidateID: "c1", ApplicationID: &appID},
		},
		{
			name:    "missing file path",
			req:     SubmitParsingJobRequest{CandidateID: "c1"},
			wantErr: true,
		},
		{
			name:    "blank file path",
			req:     SubmitParsingJobRequest{FilePath: "  ", CandidateID: "c1"},
			wantErr: true,
		},
		{
			name:    "missing candidate id",
			req:     SubmitParsingJobRequest{FilePath: "/tmp/resume.txt"},
			wantErr: true,
		},
		{
			name:    "blank application id",
			req:     SubmitParsingJobRequest{FilePath: "/tmp/resume.txt", CandidateID: "c1", ApplicationID: &blank},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractedFields_Empty(t *testing.T) {
	if !(ExtractedFields{}).Empty() {
		t.Fatal("zero value must be empty")
	}
	if (ExtractedFields{Skills: []string{"Go"}}).Empty() {
		t.Fatal("fields with skills must not be empty")
	}
	if (ExtractedFields{ExperienceYears: 2.5}).Empty() {
		t.Fatal("fields with experience must not be empty")
	}
}

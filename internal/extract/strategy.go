// Package extract implements resume field extraction strategies and the
// background worker that drives parsing jobs through them.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hireloop/intake-api/internal/domain/model"
	"github.com/hireloop/intake-api/internal/ports"
	"github.com/hireloop/intake-api/internal/util"
)

// Strategy extracts structured candidate fields from a resume document.
// Document bytes are treated as text; binary-format parsing happens upstream
// of submission.
type Strategy interface {
	Method() model.ExtractionMethod
	Extract(ctx context.Context, filePath string) (model.ExtractedFields, error)
}

// LLMStrategy extracts fields by prompting the configured generation model.
type LLMStrategy struct {
	generator ports.ContentGenerator
}

// NewLLMStrategy constructs an LLM-backed extraction strategy.
func NewLLMStrategy(generator ports.ContentGenerator) *LLMStrategy {
	return &LLMStrategy{generator: generator}
}

// Method returns the extraction method this strategy implements.
func (*LLMStrategy) Method() model.ExtractionMethod { return model.ExtractionMethodLLM }

const extractPromptTemplate = `Extract the candidate profile from the resume text below.

Resume:
%s

Respond with only a JSON object of this shape (omit unknown fields):
{"full_name": "...", "current_role": "...", "current_company": "...", "location": "...", "experience_years": 0, "skills": ["..."], "summary": "one sentence"}`

// Extract reads the document and asks the generation model for structured fields.
func (s *LLMStrategy) Extract(ctx context.Context, filePath string) (model.ExtractedFields, error) {
	text, err := readDocument(filePath)
	if err != nil {
		return model.ExtractedFields{}, err
	}

	raw, err := s.generator.GenerateContent(ctx, fmt.Sprintf(extractPromptTemplate, text))
	if err != nil {
		return model.ExtractedFields{}, fmt.Errorf("generate extraction: %w", err)
	}

	fields, err := parseExtractionResponse(raw)
	if err != nil {
		return model.ExtractedFields{}, err
	}
	if fields.Empty() {
		return model.ExtractedFields{}, fmt.Errorf("extraction produced no fields")
	}
	return fields, nil
}

// parseExtractionResponse decodes the model response, tolerating code fences
// and loosely typed field values.
func parseExtractionResponse(raw string) (model.ExtractedFields, error) {
	cleaned := util.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return model.ExtractedFields{}, fmt.Errorf("parse extraction response: %w", err)
	}

	return model.ExtractedFields{
		FullName:        util.CoerceString(data["full_name"]),
		CurrentRole:     util.CoerceString(data["current_role"]),
		CurrentCompany:  util.CoerceString(data["current_company"]),
		Location:        util.CoerceString(data["location"]),
		ExperienceYears: util.CoerceFloat(data["experience_years"]),
		Skills:          util.CoerceStringSlice(data["skills"]),
		Summary:         util.CoerceString(data["summary"]),
	}, nil
}

// PassthroughStrategy scrapes "Label: value" lines from plain-text resumes.
// It exists for development and tests, where deterministic output matters
// more than extraction quality.
type PassthroughStrategy struct{}

// NewPassthroughStrategy constructs the plain-text extraction strategy.
func NewPassthroughStrategy() *PassthroughStrategy {
	return &PassthroughStrategy{}
}

// Method returns the extraction method this strategy implements.
func (*PassthroughStrategy) Method() model.ExtractionMethod { return model.ExtractionMethodPassthrough }

// Extract scans the document for labeled lines.
func (*PassthroughStrategy) Extract(_ context.Context, filePath string) (model.ExtractedFields, error) {
	text, err := readDocument(filePath)
	if err != nil {
		return model.ExtractedFields{}, err
	}

	var fields model.ExtractedFields
	for _, line := range strings.Split(text, "\n") {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "name", "full name":
			fields.FullName = value
		case "role", "title", "current role":
			fields.CurrentRole = value
		case "company", "current company":
			fields.CurrentCompany = value
		case "location":
			fields.Location = value
		case "experience", "experience years", "years of experience":
			fields.ExperienceYears = util.CoerceFloat(value)
		case "skills":
			fields.Skills = util.CoerceStringSlice(value)
		case "summary":
			fields.Summary = value
		}
	}

	if fields.Empty() {
		return model.ExtractedFields{}, fmt.Errorf("no labeled fields found in %s", filePath)
	}
	return fields, nil
}

// maxDocumentBytes bounds how much of a document is read for extraction.
const maxDocumentBytes = 1 << 20

func readDocument(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", filePath, err)
	}
	if len(data) > maxDocumentBytes {
		data = data[:maxDocumentBytes]
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("document %s is empty", filePath)
	}
	return text, nil
}

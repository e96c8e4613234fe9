package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/intake-api/internal/domain/model"
	"github.com/hireloop/intake-api/internal/ports"
	"github.com/hireloop/intake-api/internal/util"
)

// RequirementInterpreterOptions groups dependencies for RequirementInterpreter.
type RequirementInterpreterOptions struct {
	Generator ports.ContentGenerator // Required: generation backend
	Logger    *slog.Logger           // Optional: structured logger
}

// RequirementInterpreter turns free-text hiring requirements (short recruiter
// queries or full job descriptions) into a StructuredRequirement.
//
// Interpretation is best-effort and never fails outward: empty input,
// generation failure, or an unparseable response all degrade to a requirement
// carrying only the raw text.
type RequirementInterpreter struct {
	generator ports.ContentGenerator
	logger    *slog.Logger
}

// NewRequirementInterpreter constructs a new RequirementInterpreter.
func NewRequirementInterpreter(opts RequirementInterpreterOptions) (*RequirementInterpreter, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("ContentGenerator is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "requirement_interpreter")
	}

	return &RequirementInterpreter{
		generator: opts.Generator,
		logger:    logger,
	}, nil
}

// MustNewRequirementInterpreter constructs a new RequirementInterpreter and panics on error.
func MustNewRequirementInterpreter(opts RequirementInterpreterOptions) *RequirementInterpreter {
	svc, err := NewRequirementInterpreter(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create RequirementInterpreter: %v", err))
	}
	return svc
}

const interpretPromptTemplate = `You are a technical recruiter's assistant. Extract the hiring requirement below into JSON.

Requirement text:
%s

Respond with only a JSON object of this shape (omit unknown fields):
{"role": "...", "skills": ["..."], "location": "...", "min_experience_years": 0, "seniority": "..."}`

// Interpret converts raw requirement text into a StructuredRequirement.
// The returned requirement always carries the raw text; structured fields are
// filled only when the generation backend produced a usable response.
func (s *RequirementInterpreter) Interpret(ctx context.Context, rawText string) model.StructuredRequirement {
	req := model.StructuredRequirement{RawText: strings.TrimSpace(rawText)}
	if req.RawText == "" {
		return req
	}

	raw, err := s.generator.GenerateContent(ctx, fmt.Sprintf(interpretPromptTemplate, req.RawText))
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "requirement interpretation degraded to raw text", "error", err)
		}
		return req
	}

	parsed, err := parseRequirementResponse(raw)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "unparseable requirement response, using raw text", "error", err)
		}
		return req
	}

	parsed.RawText = req.RawText
	return parsed
}

// parseRequirementResponse decodes the model response, tolerating code fences
// and loosely typed field values.
func parseRequirementResponse(raw string) (model.StructuredRequirement, error) {
	cleaned := util.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return model.StructuredRequirement{}, fmt.Errorf("parse requirement response: %w", err)
	}

	return model.StructuredRequirement{
		Role:               util.CoerceString(data["role"]),
		Skills:             util.CoerceStringSlice(data["skills"]),
		Location:           util.CoerceString(data["location"]),
		MinExperienceYears: util.CoerceFloat(data["min_experience_years"]),
		Seniority:          util.CoerceString(data["seniority"]),
	}, nil
}

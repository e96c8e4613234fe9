package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/intake-api/internal/domain/model"
	"github.com/hireloop/intake-api/internal/ports"
	"github.com/hireloop/intake-api/internal/util"
)

// SummaryUnavailable is returned verbatim when the generation backend cannot
// produce a summary. Callers treat it as a normal summary, never an error.
const SummaryUnavailable = "Match summary is currently unavailable."

// maxSummaryWords bounds the rationale length; the prompt asks for ~40 words
// and the cap trims models that ignore the instruction.
const maxSummaryWords = 40

// MatchExplainerOptions groups dependencies for MatchExplainer.
type MatchExplainerOptions struct {
	Generator ports.ContentGenerator // Required: generation backend
	Logger    *slog.Logger           // Optional: structured logger
}

// MatchExplainer produces a short grounded rationale for how a candidate fits
// a structured requirement. The prompt carries only evidence computed from
// stored candidate fields, so the model cannot invent facts that were never
// extracted. Explain never returns an error.
type MatchExplainer struct {
	generator ports.ContentGenerator
	logger    *slog.Logger
}

// NewMatchExplainer constructs a new MatchExplainer.
func NewMatchExplainer(opts MatchExplainerOptions) (*MatchExplainer, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("ContentGenerator is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "match_explainer")
	}

	return &MatchExplainer{
		generator: opts.Generator,
		logger:    logger,
	}, nil
}

// MustNewMatchExplainer constructs a new MatchExplainer and panics on error.
func MustNewMatchExplainer(opts MatchExplainerOptions) *MatchExplainer {
	svc, err := NewMatchExplainer(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create MatchExplainer: %v", err))
	}
	return svc
}

// Explain returns a bounded, grounded summary of the candidate against the
// requirement. On any generation failure it returns SummaryUnavailable.
func (s *MatchExplainer) Explain(ctx context.Context, candidate *model.CandidateProfile, req model.StructuredRequirement) string {
	if candidate == nil {
		return SummaryUnavailable
	}

	evidence := BuildMatchEvidence(candidate, req)
	prompt := buildExplainPrompt(candidate, req, evidence)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "match explanation unavailable",
				"candidate_id", candidate.ID,
				"error", err,
			)
		}
		return SummaryUnavailable
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return SummaryUnavailable
	}
	return util.TruncateWords(summary, maxSummaryWords)
}

// BuildMatchEvidence compares stored candidate fields against the requirement
// and returns one factual line per comparison. These lines are the only
// candidate facts the generation model sees.
func BuildMatchEvidence(candidate *model.CandidateProfile, req model.StructuredRequirement) []string {
	var evidence []string

	if candidate.CurrentRole != "" {
		line := fmt.Sprintf("Current role: %s", candidate.CurrentRole)
		if candidate.CurrentCompany != "" {
			line += " at " + candidate.CurrentCompany
		}
		evidence = append(evidence, line)
	}

	if candidate.ExperienceYears > 0 {
		line := fmt.Sprintf("Experience: %.1f years", candidate.ExperienceYears)
		if req.MinExperienceYears > 0 {
			if candidate.ExperienceYears >= req.MinExperienceYears {
				line += fmt.Sprintf(" (meets the %.1f-year requirement)", req.MinExperienceYears)
			} else {
				line += fmt.Sprintf(" (below the %.1f-year requirement)", req.MinExperienceYears)
			}
		}
		evidence = append(evidence, line)
	}

	if matched, missing := splitSkills(candidate, req.Skills); len(matched) > 0 || len(missing) > 0 {
		if len(matched) > 0 {
			evidence = append(evidence, "Matching skills: "+strings.Join(matched, ", "))
		}
		if len(missing) > 0 {
			evidence = append(evidence, "Missing skills: "+strings.Join(missing, ", "))
		}
	} else if len(candidate.Skills) > 0 {
		evidence = append(evidence, "Skills: "+strings.Join(candidate.Skills, ", "))
	}

	if req.Location != "" && candidate.Location != "" {
		if strings.EqualFold(strings.TrimSpace(req.Location), strings.TrimSpace(candidate.Location)) {
			evidence = append(evidence, "Location: "+candidate.Location+" (matches requirement)")
		} else {
			evidence = append(evidence,
				fmt.Sprintf("Location mismatch: candidate is in %s, requirement is %s", candidate.Location, req.Location))
		}
	} else if candidate.Location != "" {
		evidence = append(evidence, "Location: "+candidate.Location)
	}

	if len(evidence) == 0 {
		evidence = append(evidence, "No extracted profile fields are available for this candidate.")
	}
	return evidence
}

// splitSkills partitions required skills into those the candidate has and those missing.
func splitSkills(candidate *model.CandidateProfile, required []string) (matched, missing []string) {
	for _, skill := range required {
		if candidate.HasSkill(skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}

func buildExplainPrompt(candidate *model.CandidateProfile, req model.StructuredRequirement, evidence []string) string {
	var b strings.Builder
	b.WriteString("You are helping a recruiter scan search results. In at most 40 words, ")
	b.WriteString("summarize how this candidate fits the requirement. Use only the evidence ")
	b.WriteString("below; state matches first, then name gaps explicitly; do not invent facts.\n")
	b.WriteString("Example: Strong fit: 6 years backend experience with Go and PostgreSQL ")
	b.WriteString("matches the role; based in Berlin as required.\n")
	b.WriteString("Example: Partial fit: solid Go experience matches, but lacks Kubernetes ")
	b.WriteString("and is in Boston while the role requires Berlin.\n\n")

	b.WriteString("Requirement: ")
	if req.Structured() {
		if req.Role != "" {
			b.WriteString(req.Role + ". ")
		}
		if len(req.Skills) > 0 {
			b.WriteString("Skills: " + strings.Join(req.Skills, ", ") + ". ")
		}
		if req.Location != "" {
			b.WriteString("Location: " + req.Location + ". ")
		}
		if req.MinExperienceYears > 0 {
			fmt.Fprintf(&b, "Minimum %.1f years experience. ", req.MinExperienceYears)
		}
		if req.Seniority != "" {
			b.WriteString("Seniority: " + req.Seniority + ". ")
		}
	} else {
		b.WriteString(req.RawText)
	}
	b.WriteString("\n\nCandidate")
	if candidate.FullName != "" {
		b.WriteString(" " + candidate.FullName)
	}
	b.WriteString(" evidence:\n")
	for _, line := range evidence {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("\nSummary:")
	return b.String()
}

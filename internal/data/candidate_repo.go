package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/hireloop/intake-api/internal/errors"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// CandidateRepo provides database operations for candidate profiles.
type CandidateRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewCandidateRepo creates a new CandidateRepo with the given database connection and configuration.
func NewCandidateRepo(db *sql.DB, cfg RepoConfig) *CandidateRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &CandidateRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const candidateColumns = `
  id,
  full_name,
  current_title,
  current_company,
  location,
  experience_years,
  skills,
  summary,
  resume_file_url,
  last_parsed_at,
  created_at,
  updated_at
`

// GetByID retrieves a candidate profile by its identifier.
func (r *CandidateRepo) GetByID(ctx context.Context, id string) (*model.CandidateProfile, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)

	candidate, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get candidate %s: %w", id, err))
	}
	return candidate, nil
}

// Create inserts a candidate profile. The caller may set ID; when blank the
// database generates one.
func (r *CandidateRepo) Create(ctx context.Context, candidate *model.CandidateProfile) (*model.CandidateProfile, error) {
	if candidate == nil {
		return nil, errors.New("candidate is required")
	}

	skills, err := marshalSkills(candidate.Skills)
	if err != nil {
		return nil, err
	}

	var id any
	if candidate.ID != "" {
		id = candidate.ID
	}

	row := r.DB.QueryRowContext(ctx, `
      INSERT INTO candidates(id, full_name, current_title, current_company, location, experience_years, skills, summary, resume_file_url)
      VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
      RETURNING `+candidateColumns,
		id, candidate.FullName, candidate.CurrentRole, candidate.CurrentCompany,
		candidate.Location, candidate.ExperienceYears, skills, candidate.Summary, candidate.ResumeFileURL)

	created, err := scanCandidate(row)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create candidate: %w", err))
	}
	return created, nil
}

// ApplyExtractedFields writes the candidate's extracted profile fields.
// Blank extracted values never erase stored data; only fields the extraction
// actually produced are updated.
func (r *CandidateRepo) ApplyExtractedFields(ctx context.Context, id string, fields model.ExtractedFields) error {
	now := r.timeProvider.Now().UTC()
	if err := applyExtractedFields(ctx, r.DB, id, fields, now); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// execer abstracts *sql.DB and *sql.Tx so the extracted-field write can run
// standalone or inside the parsing job completion transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// applyExtractedFields writes the extracted resume fields onto the candidate row.
// Every column is guarded so a partial extraction keeps the stored value.
func applyExtractedFields(ctx context.Context, q execer, id string, fields model.ExtractedFields, now time.Time) error {
	var skills any
	if len(fields.Skills) > 0 {
		b, err := marshalSkills(fields.Skills)
		if err != nil {
			return err
		}
		skills = b
	}

	res, err := q.ExecContext(ctx, `
      UPDATE candidates
      SET full_name        = COALESCE(NULLIF($2, ''), full_name),
          current_title    = COALESCE(NULLIF($3, ''), current_title),
          current_company  = COALESCE(NULLIF($4, ''), current_company),
          location         = COALESCE(NULLIF($5, ''), location),
          experience_years = COALESCE(NULLIF($6::double precision, 0), experience_years),
          skills           = COALESCE($7::jsonb, skills),
          summary          = COALESCE(NULLIF($8, ''), summary),
          last_parsed_at   = $9,
          updated_at       = $9
      WHERE id = $1
    `, id, fields.FullName, fields.CurrentRole, fields.CurrentCompany,
		fields.Location, fields.ExperienceYears, skills, fields.Summary, now)
	if err != nil {
		return fmt.Errorf("update candidate %s: %w", id, err)
	}
	if !rowsAffected(res) {
		return ErrCandidateNotFound
	}
	return nil
}

// scanCandidate scans one candidate row in candidateColumns order.
func scanCandidate(row rowScanner) (*model.CandidateProfile, error) {
	var (
		candidate     model.CandidateProfile
		skillsRaw     []byte
		resumeFileURL sql.NullString
		lastParsedAt  sql.NullTime
	)

	err := row.Scan(
		&candidate.ID,
		&candidate.FullName,
		&candidate.CurrentRole,
		&candidate.CurrentCompany,
		&candidate.Location,
		&candidate.ExperienceYears,
		&skillsRaw,
		&candidate.Summary,
		&resumeFileURL,
		&lastParsedAt,
		&candidate.CreatedAt,
		&candidate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &candidate.Skills); err != nil {
			return nil, fmt.Errorf("decode candidate skills: %w", err)
		}
	}
	candidate.ResumeFileURL = nullableString(resumeFileURL)
	candidate.LastParsedAt = nullableTime(lastParsedAt)

	return &candidate, nil
}

// marshalSkills encodes a skill list for the jsonb skills column.
// nil encodes as an empty array so the column stays non-null.
func marshalSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	return b, nil
}

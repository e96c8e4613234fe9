package data

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// rowScanner abstracts *sql.Row, *sql.Rows, and pgx.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanParsingJob scans one parsing job row in parsingJobColumns order.
func scanParsingJob(row rowScanner) (*model.ParsingJob, error) {
	var (
		job           model.ParsingJob
		applicationID sql.NullString
		failureReason sql.NullString
		startedAt     sql.NullTime
		completedAt   sql.NullTime
	)

	err := row.Scan(
		&job.ID,
		&job.CandidateID,
		&applicationID,
		&job.FilePath,
		&job.Status,
		&job.Method,
		&failureReason,
		&startedAt,
		&completedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.ApplicationID = nullableString(applicationID)
	job.FailureReason = nullableString(failureReason)
	job.StartedAt = nullableTime(startedAt)
	job.CompletedAt = nullableTime(completedAt)

	return &job, nil
}

// collectParsingJobFromRows collects exactly one parsing job from pgx rows.
func collectParsingJobFromRows(rows pgx.Rows) (*model.ParsingJob, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}
	return scanParsingJob(rows)
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

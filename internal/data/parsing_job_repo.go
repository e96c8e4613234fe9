package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/hireloop/intake-api/internal/errors"

	"github.com/hireloop/intake-api/internal/core"
	"github.com/hireloop/intake-api/internal/data/pgxutil"
	"github.com/hireloop/intake-api/internal/domain/model"
)

// RepoConfig holds configuration options for the data repositories.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// ParsingJobRepo provides database operations for parsing job management.
type ParsingJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewParsingJobRepo creates a new ParsingJobRepo with the given database connection and configuration.
func NewParsingJobRepo(db *sql.DB, cfg RepoConfig) *ParsingJobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &ParsingJobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const parsingJobColumns = `
  id,
  candidate_id,
  application_id,
  file_path,
  status,
  method,
  failure_reason,
  started_at,
  completed_at,
  created_at,
  updated_at
`

// parsingJobAddedChannel is the pg_notify channel signaled on every insert so
// idle extractor workers can wake without waiting for the next poll tick.
const parsingJobAddedChannel = "parsing_job_added"

// Create inserts a queued parsing job and notifies listening extractors.
// The partial unique index on candidate_id over non-terminal statuses enforces
// at most one active job per candidate; a violation maps to a Conflict error.
func (r *ParsingJobRepo) Create(ctx context.Context, params core.CreateParsingJobParams) (*model.ParsingJob, error) {
	if !params.Method.Valid() {
		return nil, apperrors.ValidationField("method", "invalid extraction method")
	}

	var job *model.ParsingJob
	txErr := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
          INSERT INTO parsing_jobs(candidate_id, application_id, file_path, status, method)
          VALUES ($1, $2, $3, 'queued', $4)
          RETURNING `+parsingJobColumns,
			params.CandidateID, params.ApplicationID, params.FilePath, params.Method)
		if err != nil {
			return fmt.Errorf("insert parsing job: %w", err)
		}
		job, err = collectParsingJobFromRows(rows)
		rows.Close()
		if err != nil {
			return fmt.Errorf("collect parsing job: %w", err)
		}

		if _, err := tx.Exec(ctx, `SELECT pg_notify($1::text, $2::text)`, parsingJobAddedChannel, job.ID); err != nil {
			return fmt.Errorf("send job notification: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, apperrors.MapDBError(txErr)
	}

	return job, nil
}

// GetByID retrieves a parsing job by its identifier.
func (r *ParsingJobRepo) GetByID(ctx context.Context, id string) (*model.ParsingJob, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+parsingJobColumns+` FROM parsing_jobs WHERE id = $1`, id)

	job, err := scanParsingJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParsingJobNotFound
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get parsing job %s: %w", id, err))
	}
	return job, nil
}

// claimNextSQL atomically claims the oldest queued job for processing.
const claimNextSQL = `
  WITH cte AS (
    SELECT id FROM parsing_jobs
    WHERE status = 'queued'
    ORDER BY created_at ASC
    LIMIT 1
    FOR UPDATE SKIP LOCKED
  )
  UPDATE parsing_jobs p
  SET
    status = 'processing',
    started_at = COALESCE(p.started_at, $1),
    updated_at = $1
  FROM cte
  WHERE p.id = cte.id
  RETURNING ` + qualifiedParsingJobColumns

const qualifiedParsingJobColumns = `p.id, p.candidate_id, p.application_id, p.file_path, p.status, p.method, p.failure_reason, p.started_at, p.completed_at, p.created_at, p.updated_at`

// ClaimNext moves the oldest queued job to processing and returns it.
// Returns model.ErrNoJobsQueued when the queue is empty.
func (r *ParsingJobRepo) ClaimNext(ctx context.Context) (*model.ParsingJob, error) {
	now := r.timeProvider.Now().UTC()

	row := r.DB.QueryRowContext(ctx, claimNextSQL, now)
	job, err := scanParsingJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoJobsQueued
		}
		return nil, apperrors.MapDBError(fmt.Errorf("claim next parsing job: %w", err))
	}
	return job, nil
}

// MarkProcessing transitions a specific queued job to processing.
// The status guard in the WHERE clause keeps the machine forward-only:
// zero rows affected means the job was not queued.
func (r *ParsingJobRepo) MarkProcessing(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
      UPDATE parsing_jobs
      SET status = 'processing',
          started_at = COALESCE(started_at, $2),
          updated_at = $2
      WHERE id = $1 AND status = 'queued'
    `, id, now)
	if err != nil {
		return false, apperrors.MapDBError(fmt.Errorf("mark parsing job %s processing: %w", id, err))
	}
	return rowsAffected(res), nil
}

// Complete sets the job to completed and applies the extracted fields to the
// candidate in the same transaction. If the job is not in processing status
// the transaction writes nothing and Complete returns false.
func (r *ParsingJobRepo) Complete(ctx context.Context, id string, fields model.ExtractedFields) (bool, error) {
	now := r.timeProvider.Now().UTC()
	transitioned := false

	txErr := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var candidateID string
			err := tx.QueryRowContext(ctx, `
              UPDATE parsing_jobs
              SET status = 'completed',
                  completed_at = $2,
                  updated_at = $2
              WHERE id = $1 AND status = 'processing'
              RETURNING candidate_id
            `, id, now).Scan(&candidateID)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("complete parsing job %s: %w", id, err)
			}

			if err := applyExtractedFields(ctx, tx, candidateID, fields, now); err != nil {
				return fmt.Errorf("apply extracted fields for candidate %s: %w", candidateID, err)
			}

			transitioned = true
			return nil
		},
	})
	if txErr != nil {
		return false, apperrors.MapDBError(txErr)
	}

	if transitioned && r.logger != nil {
		r.logger.Info("parsing job completed", slog.String("parsing_job_id", id))
	}
	return transitioned, nil
}

// Fail sets a non-terminal job to failed with the given reason.
// Returns false when the job was already terminal.
func (r *ParsingJobRepo) Fail(ctx context.Context, id, reason string) (bool, error) {
	now := r.timeProvider.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
      UPDATE parsing_jobs
      SET status = 'failed',
          failure_reason = $2,
          completed_at = $3,
          updated_at = $3
      WHERE id = $1 AND status IN ('queued', 'processing')
    `, id, reason, now)
	if err != nil {
		return false, apperrors.MapDBError(fmt.Errorf("fail parsing job %s: %w", id, err))
	}
	return rowsAffected(res), nil
}

// Stats returns counts of parsing jobs per status.
func (r *ParsingJobRepo) Stats(ctx context.Context) (*model.ParsingJobStats, error) {
	var stats model.ParsingJobStats
	err := r.DB.QueryRowContext(ctx, `
      SELECT
        COUNT(*) FILTER (WHERE status = 'queued'),
        COUNT(*) FILTER (WHERE status = 'processing'),
        COUNT(*) FILTER (WHERE status = 'completed'),
        COUNT(*) FILTER (WHERE status = 'failed')
      FROM parsing_jobs
    `).Scan(&stats.Queued, &stats.Processing, &stats.Completed, &stats.Failed)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("parsing job stats: %w", err))
	}
	return &stats, nil
}

// FailStale fails processing jobs whose started_at is older than MaxAgeSeconds.
// SKIP LOCKED keeps concurrent housekeeping ticks from stepping on each other.
func (r *ParsingJobRepo) FailStale(ctx context.Context, params core.FailStaleParams) (int, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}
	reason := params.Reason
	if reason == "" {
		reason = "extraction timed out"
	}
	now := r.timeProvider.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
      UPDATE parsing_jobs
      SET status = 'failed',
          failure_reason = $1,
          completed_at = $2,
          updated_at = $2
      WHERE id IN (
        SELECT id FROM parsing_jobs
        WHERE status = 'processing'
          AND started_at < $2 - make_interval(secs => $3)
        ORDER BY started_at ASC
        LIMIT $4
        FOR UPDATE SKIP LOCKED
      )
    `, reason, now, params.MaxAgeSeconds, params.Limit)
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("fail stale parsing jobs: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("stale rows affected: %w", err)
	}
	return int(n), nil
}

func rowsAffected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

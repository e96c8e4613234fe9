// Package devseed populates a development database with sample candidates
// so the HTTP API and extractor have data to work against locally.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hireloop/intake-api/internal/data"
	"github.com/hireloop/intake-api/internal/domain/model"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB         *sql.DB
	candidates *data.CandidateRepo
}

// NewServices constructs the repositories used for seeding against the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:         db,
		candidates: data.NewCandidateRepo(db, data.RepoConfig{}),
	}
}

// Run executes the development seeding workflow against the provided DB.
// Seeding is idempotent: candidates that already exist by full name are skipped.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	existing, err := existingNames(ctx, svcs.DB)
	if err != nil {
		return fmt.Errorf("list existing candidates: %w", err)
	}

	failures := 0
	for _, seed := range defaultCandidates() {
		if existing[seed.FullName] {
			if logger != nil {
				logger.DebugContext(ctx, "candidate already seeded", "name", seed.FullName)
			}
			continue
		}
		created, createErr := svcs.candidates.Create(ctx, seed)
		if createErr != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed candidate", "name", seed.FullName, "error", createErr)
			}
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded candidate", "name", created.FullName, "id", created.ID)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d candidate seeds failed", failures)
	}
	return nil
}

func existingNames(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT full_name FROM candidates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if scanErr := rows.Scan(&name); scanErr != nil {
			return nil, scanErr
		}
		names[name] = true
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return names, nil
}

func defaultCandidates() []*model.CandidateProfile {
	return []*model.CandidateProfile{
		{
			FullName:        "Ada Lovelace",
			CurrentRole:     "Backend Engineer",
			CurrentCompany:  "Acme Analytics",
			Location:        "Berlin",
			ExperienceYears: 6,
			Skills:          []string{"Go", "PostgreSQL", "Redis"},
			Summary:         "Backend engineer with a focus on data-heavy services.",
		},
		{
			FullName:        "Grace Hopper",
			CurrentRole:     "Platform Engineer",
			CurrentCompany:  "Flowmatic",
			Location:        "New York",
			ExperienceYears: 11,
			Skills:          []string{"Go", "Kubernetes", "Terraform"},
			Summary:         "Platform engineer who builds developer tooling and CI pipelines.",
		},
		{
			FullName:        "Katherine Johnson",
			CurrentRole:     "Data Engineer",
			CurrentCompany:  "Orbit Labs",
			Location:        "Hampton",
			ExperienceYears: 9,
			Skills:          []string{"Python", "Spark", "PostgreSQL"},
			Summary:         "Data engineer experienced with batch and streaming pipelines.",
		},
		{
			FullName:        "Radia Perlman",
			CurrentRole:     "Network Engineer",
			CurrentCompany:  "Spanning Tree Networks",
			Location:        "Boston",
			ExperienceYears: 15,
			Skills:          []string{"Networking", "C", "Go"},
			Summary:         "Network engineer and protocol designer.",
		},
		{
			FullName:        "Margaret Hamilton",
			CurrentRole:     "Software Engineering Lead",
			CurrentCompany:  "Apollo Systems",
			Location:        "Cambridge",
			ExperienceYears: 14,
			Skills:          []string{"Go", "Rust", "Distributed Systems"},
			Summary:         "Engineering lead with deep experience in mission-critical software.",
		},
	}
}

// VerifyEmpty reports an error when the candidates table already has rows.
// The db-reset command uses it to confirm a drop actually happened.
func VerifyEmpty(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count); err != nil {
		return fmt.Errorf("count candidates: %w", err)
	}
	if count > 0 {
		return errors.New("candidates table is not empty")
	}
	return nil
}

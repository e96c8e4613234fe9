package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/hireloop/intake-api/config"
	"github.com/hireloop/intake-api/internal/bootstrap"
	"github.com/hireloop/intake-api/internal/core"
	"github.com/hireloop/intake-api/internal/data"
	"github.com/hireloop/intake-api/internal/devseed"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultCommandTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development candidates",
			run:         runDBSeed,
		},
		"job-stats": {
			name:        "job-stats",
			description: "Print parsing job counts per status",
			run:         runJobStats,
		},
		"fail-stale-jobs": {
			name:        "fail-stale-jobs",
			description: "Mark parsing jobs stuck in processing as failed",
			run:         runFailStaleJobs,
		},
		"check-infra": {
			name:        "check-infra",
			description: "Verify connectivity to Postgres and Redis",
			run:         runCheckInfra,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stderr, "usage: intake-admin <command> [flags]\n\ncommands:\n"); err != nil {
		return err
	}

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		if err := writef(w, "  %s\t%s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return w.Flush()
}

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

type failStaleOptions struct {
	Timeout time.Duration
	MaxAge  time.Duration
	Limit   int
	Reason  string
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	opts := migrateOptions{}
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "abort after this duration")
	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	return opts, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	opts := dbResetOptions{}
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "abort after this duration")
	fs.BoolVar(&opts.Yes, "yes", false, "skip the interactive confirmation prompt")
	fs.BoolVar(&opts.Seed, "seed", false, "seed development candidates after the reset")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "permit running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}
	return opts, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	opts := dbSeedOptions{}
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "abort after this duration")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "permit running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}
	return opts, nil
}

func parseFailStaleFlags(args []string) (failStaleOptions, error) {
	opts := failStaleOptions{}
	fs := flag.NewFlagSet("fail-stale-jobs", flag.ContinueOnError)
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "abort after this duration")
	fs.DurationVar(&opts.MaxAge, "max-age", 10*time.Minute, "fail jobs processing for longer than this")
	fs.IntVar(&opts.Limit, "limit", 100, "maximum number of jobs to fail per run")
	fs.StringVar(&opts.Reason, "reason", "extraction timed out", "failure reason recorded on swept jobs")
	if err := fs.Parse(args); err != nil {
		return failStaleOptions{}, err
	}
	if opts.MaxAge <= 0 {
		return failStaleOptions{}, errors.New("max-age must be positive")
	}
	if opts.Limit <= 0 {
		return failStaleOptions{}, errors.New("limit must be positive")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	if guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema"); guardErr != nil {
		return guardErr
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)
	if confirmErr := confirmAction(opts.Yes, "reset database schema", target); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if _, execErr := db.ExecContext(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public`); execErr != nil {
			return fmt.Errorf("drop schema: %w", execErr)
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		if verifyErr := devseed.VerifyEmpty(ctx, db); verifyErr != nil {
			return fmt.Errorf("verify reset: %w", verifyErr)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development candidates after reset")
			if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
				return fmt.Errorf("seed data: %w", seedErr)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("seeding development candidates")
		if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
			return fmt.Errorf("seed data: %w", seedErr)
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

func runJobStats(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewParsingJobRepo(db, data.RepoConfig{})
		stats, statsErr := repo.Stats(ctx)
		if statsErr != nil {
			return fmt.Errorf("load parsing job stats: %w", statsErr)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		rows := []struct {
			label string
			count int
		}{
			{"queued", stats.Queued},
			{"processing", stats.Processing},
			{"completed", stats.Completed},
			{"failed", stats.Failed},
		}
		for _, row := range rows {
			if writeErr := writef(w, "%s\t%d\n", row.label, row.count); writeErr != nil {
				return writeErr
			}
		}
		return w.Flush()
	})
}

func runFailStaleJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseFailStaleFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewParsingJobRepo(db, data.RepoConfig{})
		n, sweepErr := repo.FailStale(ctx, core.FailStaleParams{
			MaxAgeSeconds: int(opts.MaxAge.Seconds()),
			Limit:         opts.Limit,
			Reason:        opts.Reason,
		})
		if sweepErr != nil {
			return fmt.Errorf("fail stale jobs: %w", sweepErr)
		}

		cmdCtx.Logger.Info("stale job sweep finished", "failed", n, "max_age", opts.MaxAge.String())
		return writef(os.Stdout, "failed %d stale parsing jobs\n", n)
	})
}

func runCheckInfra(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, redisClient, err := connectInfra(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeInfra(db, redisClient); closeErr != nil {
			cmdCtx.Logger.Warn("close infra failed", "error", closeErr)
		}
	}()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("ping postgres: %w", pingErr)
	}
	cmdCtx.Logger.Info("postgres reachable", "database", cmdCtx.Config.Postgres.Name)

	if redisClient == nil {
		cmdCtx.Logger.Info("redis not configured; skipping redis check")
		return nil
	}
	if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
		return fmt.Errorf("ping redis: %w", pingErr)
	}
	cmdCtx.Logger.Info("redis reachable")
	return nil
}

// withDatabase opens a DB connection, installs signal handling and a timeout,
// and runs fn before closing the connection.
func withDatabase(cmdCtx *commandContext, timeout time.Duration, fn func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	return fn(ctx, db)
}

// guardRemoteHost refuses destructive commands against non-local hosts unless
// the caller passed --allow-remote.
func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) error {
	host := strings.TrimSpace(cmdCtx.Config.Postgres.Host)
	if isLocalHost(host) || allow {
		return nil
	}
	return fmt.Errorf("refusing to %s on remote host %q without --allow-remote", action, host)
}

func isLocalHost(host string) bool {
	switch strings.ToLower(host) {
	case "", "localhost", "127.0.0.1", "::1", "postgres", "db":
		return true
	}
	return false
}

func confirmAction(yes bool, action, target string) error {
	if yes {
		return nil
	}
	if err := writef(os.Stderr, "about to %s for %s\ntype 'yes' to continue: ", action, target); err != nil {
		return err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.TrimSpace(line) != "yes" {
		return errors.New("aborted")
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

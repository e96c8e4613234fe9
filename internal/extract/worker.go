package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hireloop/intake-api/internal/domain/model"
	"github.com/hireloop/intake-api/internal/service"
	"github.com/hireloop/intake-api/internal/util"
)

// WorkerOptions groups dependencies and tuning for the extraction worker.
type WorkerOptions struct {
	Jobs        *service.ParsingJobService // Required: parsing job tracker
	Strategies  []Strategy                 // Required: at least one extraction strategy
	Concurrency int                        // Optional: claim loops to run (default 1)
	PollEvery   time.Duration              // Optional: idle poll interval (default 2s)
	StaleAfter  time.Duration              // Optional: processing age before a job is failed (default 10m)
	Logger      *slog.Logger               // Optional: structured logger
}

// Worker claims queued parsing jobs, runs the matching extraction strategy,
// and advances each job to a terminal status. A housekeeping tick fails
// processing jobs stranded by crashed workers.
type Worker struct {
	jobs        *service.ParsingJobService
	strategies  map[model.ExtractionMethod]Strategy
	concurrency int
	pollEvery   time.Duration
	staleAfter  time.Duration
	logger      *slog.Logger
}

// NewWorker constructs a new extraction Worker.
func NewWorker(opts WorkerOptions) (*Worker, error) {
	if opts.Jobs == nil {
		return nil, errors.New("ParsingJobService is required")
	}
	if len(opts.Strategies) == 0 {
		return nil, errors.New("at least one extraction strategy is required")
	}

	strategies := make(map[model.ExtractionMethod]Strategy, len(opts.Strategies))
	for _, s := range opts.Strategies {
		strategies[s.Method()] = s
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	pollEvery := opts.PollEvery
	if pollEvery <= 0 {
		pollEvery = 2 * time.Second
	}
	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		jobs:        opts.Jobs,
		strategies:  strategies,
		concurrency: concurrency,
		pollEvery:   pollEvery,
		staleAfter:  staleAfter,
		logger:      logger.With("component", "extract_worker"),
	}, nil
}

// Run blocks until ctx is done, running the claim loops and the stale sweep.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			return w.claimLoop(ctx)
		})
	}
	g.Go(func() error {
		return w.staleSweepLoop(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// claimLoop drains the queue, then sleeps for the poll interval when idle.
func (w *Worker) claimLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	for {
		if err := w.processOne(ctx); err != nil {
			if errors.Is(err, model.ErrNoJobsQueued) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
				}
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.ErrorContext(ctx, "processing parsing job failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}

// processOne claims and fully processes a single job.
// Extraction errors terminate the job as failed; only infrastructure errors
// (claim or advance failures) propagate.
func (w *Worker) processOne(ctx context.Context) error {
	job, err := w.jobs.ClaimNext(ctx)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "parsing job claimed",
		"parsing_job_id", job.ID,
		"candidate_id", job.CandidateID,
		"method", job.Method,
	)

	strategy, ok := w.strategies[job.Method]
	if !ok {
		return w.jobs.Fail(ctx, job.ID, fmt.Sprintf("no strategy for method %q", job.Method))
	}

	fields, err := strategy.Extract(ctx, job.FilePath)
	if err != nil {
		return w.jobs.Fail(ctx, job.ID, util.TruncateWords(err.Error(), 50))
	}

	if err := w.jobs.Complete(ctx, job.ID, fields); err != nil {
		return fmt.Errorf("complete job %s: %w", job.ID, err)
	}
	return nil
}

// staleSweepLoop periodically fails processing jobs older than staleAfter.
func (w *Worker) staleSweepLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.staleAfter / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.jobs.FailStale(ctx, int(w.staleAfter.Seconds()), 100); err != nil {
				w.logger.ErrorContext(ctx, "stale parsing job sweep failed", "error", err)
			}
		}
	}
}

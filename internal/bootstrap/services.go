package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hireloop/intake-api/config"
	"github.com/hireloop/intake-api/internal/adapters/gemini"
	"github.com/hireloop/intake-api/internal/data"
	"github.com/hireloop/intake-api/internal/extract"
	"github.com/hireloop/intake-api/internal/ports"
	"github.com/hireloop/intake-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	ParsingJobs     *service.ParsingJobService
	SearchSummaries *service.SearchSummaryService
	Interpreter     *service.RequirementInterpreter
	Explainer       *service.MatchExplainer
	Auth            *service.AuthService
	Generator       ports.ContentGenerator
	Candidates      *data.CandidateRepo
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB             *sql.DB
	Redis          redis.UniversalClient
	ParsingJobRepo *data.ParsingJobRepo
	CandidateRepo  *data.CandidateRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, logger *slog.Logger, redis redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		DB:             db,
		Redis:          redis,
		ParsingJobRepo: data.NewParsingJobRepo(db, data.RepoConfig{Logger: logger}),
		CandidateRepo:  data.NewCandidateRepo(db, data.RepoConfig{Logger: logger}),
	}
}

// buildGenerator picks the generation backend. Without an API key the
// disabled backend makes every generation call fail soft: interpretation
// degrades to raw text and explanations return the unavailable sentinel.
//
//nolint:ireturn // the port type is the point; callers must not care which backend serves it.
func buildGenerator(ctx context.Context, cfg config.GenAIConfig, logger *slog.Logger) ports.ContentGenerator {
	if !cfg.Enabled() {
		if logger != nil {
			logger.Warn("generation backend disabled: no API key configured")
		}
		return gemini.NewDisabled()
	}

	generator, err := gemini.NewGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		if logger != nil {
			logger.Error("failed to create generation client, falling back to disabled backend", "error", err)
		}
		return gemini.NewDisabled()
	}

	if logger != nil {
		logger.Info("generation backend ready", "model", generator.Model())
	}
	return generator
}

// NewServices wires repositories and adapters into the service container.
func NewServices(ctx context.Context, deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB, logger, deps.RedisClient)
	generator := buildGenerator(ctx, appCfg.GenAI, logger)

	parsingJobs := service.MustNewParsingJobService(service.ParsingJobServiceOptions{
		Repo:   repos.ParsingJobRepo,
		Method: appCfg.Extractor.Method,
		Logger: logger,
	})

	interpreter := service.MustNewRequirementInterpreter(service.RequirementInterpreterOptions{
		Generator: generator,
		Logger:    logger,
	})
	explainer := service.MustNewMatchExplainer(service.MatchExplainerOptions{
		Generator: generator,
		Logger:    logger,
	})
	searchSummaries := service.MustNewSearchSummaryService(service.SearchSummaryServiceOptions{
		Candidates:  repos.CandidateRepo,
		Interpreter: interpreter,
		Explainer:   explainer,
		Logger:      logger,
	})

	authService := BuildAuthService(ctx, AuthConfig{
		Auth:        appCfg.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		ParsingJobs:     parsingJobs,
		SearchSummaries: searchSummaries,
		Interpreter:     interpreter,
		Explainer:       explainer,
		Auth:            authService,
		Generator:       generator,
		Candidates:      repos.CandidateRepo,
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name,
					"error", errMsg,
				)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newExtractorBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeExtractor,
		name: "extraction worker",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			extractorCfg := config.ExtractorConfig{}
			if deps.cfg.Config != nil {
				extractorCfg = deps.cfg.Config.Extractor
			}

			worker, err := extract.NewWorker(extract.WorkerOptions{
				Jobs: deps.cfg.Services.ParsingJobs,
				Strategies: []extract.Strategy{
					extract.NewLLMStrategy(deps.cfg.Services.Generator),
					extract.NewPassthroughStrategy(),
				},
				Concurrency: extractorCfg.Concurrency,
				PollEvery:   extractorCfg.PollEvery,
				StaleAfter:  extractorCfg.StaleAfter,
				Logger:      deps.logger,
			})
			if err != nil {
				return fmt.Errorf("build extraction worker: %w", err)
			}
			return worker.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newExtractorBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, len(enabledServices)+1)

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}

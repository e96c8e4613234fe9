package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hireloop/intake-api/internal/domain/model"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeExtractor runs the resume extraction worker.
	ServiceModeExtractor ServiceMode = "extractor"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeExtractor,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeExtractor:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, extractor)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// ExtractorConfig contains extraction worker configuration.
type ExtractorConfig struct {
	// Concurrency is the number of claim loops to run.
	Concurrency int `env:"EXTRACTOR_CONCURRENCY" envDefault:"2"`

	// PollEvery is how often an idle claim loop re-checks the queue.
	PollEvery time.Duration `env:"EXTRACTOR_POLL_EVERY" envDefault:"2s"`

	// StaleAfter is how long a job may sit in processing before the sweep fails it.
	StaleAfter time.Duration `env:"EXTRACTOR_STALE_AFTER" envDefault:"10m"`

	// Method is the extraction method recorded on newly submitted jobs.
	// Valid values: llm, passthrough.
	Method model.ExtractionMethod `env:"EXTRACTOR_METHOD" envDefault:"llm"`
}

// Sanitize applies guardrails to extractor configuration values.
func (e *ExtractorConfig) Sanitize() {
	if e.Concurrency < 1 {
		e.Concurrency = 1
	}
	if e.PollEvery < 100*time.Millisecond {
		e.PollEvery = 100 * time.Millisecond
	}
	if e.StaleAfter < time.Minute {
		e.StaleAfter = time.Minute
	}
	if !e.Method.Valid() {
		e.Method = model.ExtractionMethodLLM
	}
}

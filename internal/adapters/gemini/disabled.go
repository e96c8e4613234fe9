package gemini

import (
	"context"

	"github.com/hireloop/intake-api/internal/ports"
)

// Disabled is a ContentGenerator used when no API key is configured.
// Every call reports ErrGenerationUnavailable; interpreter and explainer
// degrade to their fallbacks and the service keeps running.
type Disabled struct{}

// NewDisabled creates a generator that refuses all generation requests.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// GenerateContent always returns ErrGenerationUnavailable.
func (*Disabled) GenerateContent(context.Context, string) (string, error) {
	return "", ports.ErrGenerationUnavailable
}

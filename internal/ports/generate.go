package ports

import (
	"context"
	"errors"
)

// ErrGenerationUnavailable is returned by ContentGenerator implementations when
// generation cannot be performed (disabled, misconfigured, or upstream failure
// classified as unavailability). Callers degrade rather than propagate it.
var ErrGenerationUnavailable = errors.New("content generation unavailable")

// ContentGenerator produces a textual completion for a prompt.
// Implementations live in internal/adapters/gemini.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

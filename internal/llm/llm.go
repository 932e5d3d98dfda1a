package llm

import (
	"context"

	"github.com/hearttalk-bot/internal/models"
)

// Provider produces a single completion for a request.
// Implementations return ErrEmptyCompletion when the backend sent no text.
type Provider interface {
	Complete(ctx context.Context, req *models.CompletionRequest) (string, error)
	Name() string
	Close() error
}

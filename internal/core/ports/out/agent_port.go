package out

import (
	"context"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
)

// AgentPort is the language-model collaborator that turns a free-text
// message into a structured intent plus parameters. How the extraction
// happens is entirely the adapter's business.
type AgentPort interface {
	ExtractIntent(ctx context.Context, history []domain.Turn, message string) (*domain.IntentResult, error)
}

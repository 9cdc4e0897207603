package in

import (
	"context"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
)

// ChatUseCase handles one user message end to end: intent extraction,
// dispatch to the scheduler and rendering of a textual reply. It never
// lets a scheduler error escape as a fault; every outcome is text.
type ChatUseCase interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*domain.ChatReply, error)
}

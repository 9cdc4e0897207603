package out

import (
	"context"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
)

// CalendarPort wraps the remote calendar store. The store owns the
// authoritative event list; this port only exposes the two operations
// the core needs.
type CalendarPort interface {
	// ListEvents returns every event intersecting the half-open
	// window on the given calendar. A transport, auth or server
	// failure surfaces as *domain.StoreUnavailableError, never as an
	// empty list.
	ListEvents(ctx context.Context, calendarID string, window domain.TimeWindow) ([]domain.Event, error)

	// CreateEvent inserts an event and returns the appointment with
	// the store-assigned identifier and access link.
	CreateEvent(ctx context.Context, calendarID string, draft domain.AppointmentDraft) (*domain.Appointment, error)
}

package in

import (
	"context"
	"time"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
)

// SchedulerUseCase is the slot engine: availability checks, slot
// listing and booking against the remote calendar store.
type SchedulerUseCase interface {
	// CheckAvailability reports whether exactly the requested window
	// is free of overlapping events.
	CheckAvailability(ctx context.Context, window domain.TimeWindow) (bool, error)

	// ListAvailableSlots returns the free slots of the given duration
	// on the calendar day of day, ordered by start time ascending.
	// An empty day of candidates is an empty slice, not an error.
	ListAvailableSlots(ctx context.Context, day time.Time, duration time.Duration) ([]domain.Slot, error)

	// BookAppointment re-validates the window immediately before
	// inserting. It never overwrites or double-books.
	BookAppointment(ctx context.Context, draft domain.AppointmentDraft) (*domain.Appointment, error)

	// InvalidateDay drops cached slot state for a calendar day, used
	// when an external change to the store is observed.
	InvalidateDay(ctx context.Context, calendarID string, day time.Time)
}

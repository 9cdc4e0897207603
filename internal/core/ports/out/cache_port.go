package out

import (
	"context"
	"time"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
)

// CachePort caches computed slot lists per calendar day and duration.
// The booking path never reads through this cache; it exists to keep
// repeated listings cheap between calendar changes.
type CachePort interface {
	GetSlots(ctx context.Context, calendarID string, day time.Time, duration time.Duration) ([]domain.Slot, bool)
	StoreSlots(ctx context.Context, calendarID string, day time.Time, duration time.Duration, slots []domain.Slot)

	// InvalidateDay drops every cached slot list for the calendar day,
	// regardless of duration.
	InvalidateDay(ctx context.Context, calendarID string, day time.Time)
	InvalidateAll(ctx context.Context)
}

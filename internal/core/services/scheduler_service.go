package services

import (
	"context"
	"sync"
	"time"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
	"github.com/tailortalk/booking-assistant/internal/utils"
)

// SchedulerService is the slot engine. It holds no persistent state;
// every answer is a function of the current remote calendar state and
// the requested window or day.
type SchedulerService struct {
	calendarPort out.CalendarPort
	cachePort    out.CachePort
	logger       out.LoggerPort
	calendarID   string
	hours        domain.BusinessHours
}

func NewSchedulerService(
	calendarPort out.CalendarPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
	calendarID string,
	hours domain.BusinessHours,
) *SchedulerService {
	return &SchedulerService{
		calendarPort: calendarPort,
		cachePort:    cachePort,
		logger:       logger.WithModule("SchedulerService"),
		calendarID:   calendarID,
		hours:        hours,
	}
}

// CheckAvailability queries the store for exactly the requested window.
// A store failure propagates; it is never reported as "busy".
func (s *SchedulerService) CheckAvailability(ctx context.Context, window domain.TimeWindow) (bool, error) {
	events, err := s.calendarPort.ListEvents(ctx, s.calendarID, window)
	if err != nil {
		s.logger.Error("slots.check.fetch_failed", out.LogFields{
			"window": window.String(),
			"error":  err.Error(),
		})
		return false, err
	}

	return len(events) == 0, nil
}

// ListAvailableSlots partitions the business hours of the given day
// into candidate windows of the requested duration, advancing by the
// configured granularity so candidates may overlap, and keeps the free
// ones. Free/busy queries for the candidates run concurrently; the
// result is reassembled in start-time order.
func (s *SchedulerService) ListAvailableSlots(ctx context.Context, day time.Time, duration time.Duration) ([]domain.Slot, error) {
	if duration <= 0 {
		duration = s.hours.DefaultDuration
	}
	day = utils.StartCurrentDay(day)

	s.logger.Info("slots.list.started", out.LogFields{
		"day":      day.Format("2006-01-02"),
		"duration": duration.String(),
	})

	if s.cachePort != nil {
		if slots, exists := s.cachePort.GetSlots(ctx, s.calendarID, day, duration); exists {
			s.logger.Debug("slots.list.cache.hit", out.LogFields{
				"day":        day.Format("2006-01-02"),
				"slotsCount": len(slots),
			})
			return slots, nil
		}
	}

	candidates := s.candidateWindows(day, duration)
	free, err := s.checkCandidates(ctx, candidates)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, 0, len(candidates))
	for i, window := range candidates {
		if free[i] {
			slots = append(slots, domain.NewSlot(window))
		}
	}

	if s.cachePort != nil {
		s.cachePort.StoreSlots(ctx, s.calendarID, day, duration, slots)
	}

	s.logger.Info("slots.list.finished", out.LogFields{
		"day":        day.Format("2006-01-02"),
		"candidates": len(candidates),
		"free":       len(slots),
	})

	return slots, nil
}

// BookAppointment re-validates the window immediately before the
// insert. The re-validation bypasses the slot cache; only the remote
// store is trusted for freshness. The gap between the check and the
// insert is accepted: the store is the sole arbiter and a losing
// concurrent request fails its own re-validation.
func (s *SchedulerService) BookAppointment(ctx context.Context, draft domain.AppointmentDraft) (*domain.Appointment, error) {
	s.logger.Info("booking.started", out.LogFields{
		"title":  draft.Title,
		"window": draft.Window.String(),
	})

	free, err := s.CheckAvailability(ctx, draft.Window)
	if err != nil {
		return nil, err
	}
	if !free {
		s.logger.Warn("booking.slot_taken", out.LogFields{
			"window": draft.Window.String(),
		})
		return nil, &domain.SlotNoLongerAvailableError{Window: draft.Window}
	}

	appointment, err := s.calendarPort.CreateEvent(ctx, s.calendarID, draft)
	if err != nil {
		s.logger.Error("booking.create_failed", out.LogFields{
			"window": draft.Window.String(),
			"error":  err.Error(),
		})
		return nil, &domain.BookingFailedError{Reason: "calendar store rejected the event", Cause: err}
	}

	s.InvalidateDay(ctx, s.calendarID, draft.Window.Start())

	s.logger.Info("booking.created", out.LogFields{
		"eventId": appointment.EventID,
		"window":  appointment.Window.String(),
	})

	return appointment, nil
}

// InvalidateDay drops cached slots for the calendar day. Used after a
// booking in this process and by the change-feed listener for bookings
// made elsewhere.
func (s *SchedulerService) InvalidateDay(ctx context.Context, calendarID string, day time.Time) {
	if s.cachePort == nil {
		return
	}
	if calendarID == "" {
		calendarID = s.calendarID
	}
	s.cachePort.InvalidateDay(ctx, calendarID, utils.StartCurrentDay(day))
}

func (s *SchedulerService) candidateWindows(day time.Time, duration time.Duration) []domain.TimeWindow {
	open := s.hours.DayStart(day)
	end := s.hours.DayEnd(day)

	var candidates []domain.TimeWindow
	for start := open; !start.Add(duration).After(end); start = start.Add(s.hours.Granularity) {
		window, err := domain.WindowAt(start, duration)
		if err != nil {
			continue
		}
		candidates = append(candidates, window)
	}

	return candidates
}

// checkCandidates issues one free/busy query per candidate window.
// The queries have no ordering dependency, so they run concurrently;
// each goroutine writes only its own index, which keeps the results in
// candidate order regardless of completion order.
func (s *SchedulerService) checkCandidates(ctx context.Context, candidates []domain.TimeWindow) ([]bool, error) {
	free := make([]bool, len(candidates))
	errCh := make(chan error, len(candidates))

	var wg sync.WaitGroup
	for i, window := range candidates {
		wg.Add(1)
		go func(i int, window domain.TimeWindow) {
			defer wg.Done()

			ok, err := s.CheckAvailability(ctx, window)
			if err != nil {
				errCh <- err
				return
			}
			free[i] = ok
		}(i, window)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}

	return free, nil
}

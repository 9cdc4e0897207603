package googlecal

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

const listPageSize = 250

// GoogleCalendarAdapter implements CalendarPort against the Google
// Calendar API, authenticated by a service-account credential loaded
// once at startup.
type GoogleCalendarAdapter struct {
	service *calendar.Service
	logger  out.LoggerPort
}

func NewGoogleCalendarAdapter(ctx context.Context, credentialsPath string, logger out.LoggerPort) (*GoogleCalendarAdapter, error) {
	service, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		logger.Error("gcal.init_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return NewWithService(service, logger), nil
}

// NewWithService wires an adapter around an already-built client,
// which is how tests point it at a fake endpoint.
func NewWithService(service *calendar.Service, logger out.LoggerPort) *GoogleCalendarAdapter {
	return &GoogleCalendarAdapter{
		service: service,
		logger:  logger.WithModule("GoogleCalendarAdapter"),
	}
}

// ListEvents returns the events intersecting the half-open window.
// The provider's timeMin/timeMax filter already matches those
// semantics: an event is returned iff it starts before timeMax and
// ends after timeMin.
func (a *GoogleCalendarAdapter) ListEvents(ctx context.Context, calendarID string, window domain.TimeWindow) ([]domain.Event, error) {
	a.logger.Debug("gcal.events.fetch", out.LogFields{
		"calendarId": calendarID,
		"window":     window.String(),
	})

	response, err := a.service.Events.List(calendarID).
		TimeMin(window.Start().Format(time.RFC3339)).
		TimeMax(window.End().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(listPageSize).
		Context(ctx).
		Do()
	if err != nil {
		a.logger.Error("gcal.events.fetch_failed", out.LogFields{
			"calendarId": calendarID,
			"error":      err.Error(),
		})
		return nil, &domain.StoreUnavailableError{Cause: err}
	}

	events := make([]domain.Event, 0, len(response.Items))
	for _, item := range response.Items {
		start, startErr := parseEventTime(item.Start)
		end, endErr := parseEventTime(item.End)
		if startErr != nil || endErr != nil {
			a.logger.Warn("gcal.events.decode_skipped", out.LogFields{
				"eventId": item.Id,
			})
			continue
		}
		events = append(events, domain.Event{
			ID:      item.Id,
			Summary: item.Summary,
			Start:   start,
			End:     end,
		})
	}

	a.logger.Debug("gcal.events.fetch_success", out.LogFields{
		"calendarId": calendarID,
		"count":      len(events),
	})

	return events, nil
}

func (a *GoogleCalendarAdapter) CreateEvent(ctx context.Context, calendarID string, draft domain.AppointmentDraft) (*domain.Appointment, error) {
	a.logger.Info("gcal.events.insert", out.LogFields{
		"calendarId": calendarID,
		"title":      draft.Title,
		"window":     draft.Window.String(),
	})

	event := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start: &calendar.EventDateTime{
			DateTime: draft.Window.Start().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: draft.Window.End().Format(time.RFC3339),
		},
	}
	if draft.Attendee != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: draft.Attendee}}
	}

	created, err := a.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		a.logger.Error("gcal.events.insert_failed", out.LogFields{
			"calendarId": calendarID,
			"error":      err.Error(),
		})
		return nil, &domain.StoreUnavailableError{Cause: err}
	}

	a.logger.Info("gcal.events.insert_success", out.LogFields{
		"calendarId": calendarID,
		"eventId":    created.Id,
	})

	return &domain.Appointment{
		EventID:     created.Id,
		Link:        created.HtmlLink,
		Title:       draft.Title,
		Description: draft.Description,
		Window:      draft.Window,
		Attendee:    draft.Attendee,
	}, nil
}

// parseEventTime handles both timed events (dateTime) and all-day
// events, which only carry a date.
func parseEventTime(t *calendar.EventDateTime) (time.Time, error) {
	if t == nil {
		return time.Time{}, &domain.UnparseableDateTimeError{Input: ""}
	}
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	return time.Parse("2006-01-02", t.Date)
}

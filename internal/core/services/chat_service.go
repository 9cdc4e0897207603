package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
	coreIn "github.com/tailortalk/booking-assistant/internal/core/ports/in"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
	"github.com/tailortalk/booking-assistant/internal/utils"
)

const (
	dateLabelLayout = "January 2, 2006"
	maxListedSlots  = 8
)

const fallbackReply = "I'm sorry, I had trouble with that request. Could you rephrase it?"

// ChatService is the intent dispatcher: it maps one structured intent
// to exactly one scheduler call and renders the result back into a
// conversational reply. It is stateless per request; the session only
// carries the sliding window of prior turns.
type ChatService struct {
	scheduler coreIn.SchedulerUseCase
	agentPort out.AgentPort
	sessions  *SessionManager
	logger    out.LoggerPort
	hours     domain.BusinessHours
	location  *time.Location
	now       func() time.Time
}

func NewChatService(
	scheduler coreIn.SchedulerUseCase,
	agentPort out.AgentPort,
	sessions *SessionManager,
	logger out.LoggerPort,
	hours domain.BusinessHours,
	location *time.Location,
) *ChatService {
	return &ChatService{
		scheduler: scheduler,
		agentPort: agentPort,
		sessions:  sessions,
		logger:    logger.WithModule("ChatService"),
		hours:     hours,
		location:  location,
		now:       time.Now,
	}
}

// HandleMessage runs one user message through intent extraction and
// dispatch. Every outcome, including every error, is rendered as text;
// nothing escapes as a fault.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID, message string) (*domain.ChatReply, error) {
	session := s.sessions.GetOrCreate(sessionID)

	s.logger.Info("chat.message.received", out.LogFields{
		"sessionId": session.ID,
		"length":    len(message),
	})

	var text string
	result, err := s.agentPort.ExtractIntent(ctx, session.History(), message)
	if err != nil {
		s.logger.Error("chat.intent.extract_failed", out.LogFields{
			"sessionId": session.ID,
			"error":     err.Error(),
		})
		text = fallbackReply
	} else {
		text = s.dispatch(ctx, result)
	}

	session.AddTurn(domain.TurnRoleUser, message)
	session.AddTurn(domain.TurnRoleAssistant, text)

	return &domain.ChatReply{SessionID: session.ID, Text: text}, nil
}

// dispatch maps one intent to one scheduler call.
func (s *ChatService) dispatch(ctx context.Context, result *domain.IntentResult) string {
	s.logger.Debug("chat.intent.dispatch", out.LogFields{
		"intent":     string(result.Kind),
		"confidence": result.Confidence,
	})

	var text string
	var err error

	switch result.Kind {
	case domain.IntentCheckAvailability:
		text, err = s.checkAvailability(ctx, result.Params)
	case domain.IntentListSlots:
		text, err = s.listSlots(ctx, result.Params)
	case domain.IntentBook:
		text, err = s.book(ctx, result.Params)
	case domain.IntentSmalltalk:
		if result.Reply != "" {
			return result.Reply
		}
		return fallbackReply
	default:
		s.logger.Warn("chat.intent.unknown", out.LogFields{
			"intent": string(result.Kind),
		})
		if result.Reply != "" {
			return result.Reply
		}
		return fallbackReply
	}

	if err != nil {
		return s.renderError(err)
	}
	return text
}

// checkAvailability answers for a specific time when one is given,
// otherwise falls back to listing the day's open slots.
func (s *ChatService) checkAvailability(ctx context.Context, params domain.IntentParams) (string, error) {
	if params.Time == "" {
		return s.listSlots(ctx, params)
	}

	window, err := s.resolveWindow(params)
	if err != nil {
		return "", err
	}

	free, err := s.scheduler.CheckAvailability(ctx, window)
	if err != nil {
		return "", err
	}

	day := window.Start().Format(dateLabelLayout)
	clock := window.Start().Format(domain.SlotLabelLayout)
	if free {
		return fmt.Sprintf("Good news! The time slot on %s at %s is available.", day, clock), nil
	}
	return fmt.Sprintf("Unfortunately, the time slot on %s at %s is not available. Would you like me to suggest alternatives?", day, clock), nil
}

func (s *ChatService) listSlots(ctx context.Context, params domain.IntentParams) (string, error) {
	day, err := s.resolveDate(params)
	if err != nil {
		return "", err
	}

	slots, err := s.scheduler.ListAvailableSlots(ctx, day, s.duration(params))
	if err != nil {
		return "", err
	}

	label := day.Format(dateLabelLayout)
	if len(slots) == 0 {
		return fmt.Sprintf("No available slots found for %s. Would you like to try a different date?", label), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available time slots for %s:\n", label)
	for i, slot := range slots {
		if i == maxListedSlots {
			fmt.Fprintf(&b, "...and %d more", len(slots)-maxListedSlots)
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, slot.Label)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *ChatService) book(ctx context.Context, params domain.IntentParams) (string, error) {
	if params.Title == "" {
		return "", &domain.MissingParameterError{Name: "title"}
	}
	if params.Time == "" {
		return "", &domain.MissingParameterError{Name: "time"}
	}

	window, err := s.resolveWindow(params)
	if err != nil {
		return "", err
	}

	appointment, err := s.scheduler.BookAppointment(ctx, domain.AppointmentDraft{
		Title:       params.Title,
		Description: params.Description,
		Window:      window,
		Attendee:    params.Attendee,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Perfect! I've booked %q for %s at %s. Duration: %d minutes.",
		appointment.Title,
		appointment.Window.Start().Format(dateLabelLayout),
		appointment.Window.Start().Format(domain.SlotLabelLayout),
		int(appointment.Window.Duration().Minutes()),
	), nil
}

// resolveDate parses the required free-form date parameter.
func (s *ChatService) resolveDate(params domain.IntentParams) (time.Time, error) {
	if params.Date == "" {
		return time.Time{}, &domain.MissingParameterError{Name: "date"}
	}

	day, err := utils.ParseDate(params.Date, s.location, s.now())
	if err != nil {
		return time.Time{}, &domain.UnparseableDateTimeError{Input: params.Date}
	}
	return day, nil
}

// resolveWindow combines date, time and duration into a booking window.
func (s *ChatService) resolveWindow(params domain.IntentParams) (domain.TimeWindow, error) {
	day, err := s.resolveDate(params)
	if err != nil {
		return domain.TimeWindow{}, err
	}

	hour, minute, err := utils.ParseClock(params.Time)
	if err != nil {
		return domain.TimeWindow{}, &domain.UnparseableDateTimeError{Input: params.Time}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, s.location)
	window, err := domain.WindowAt(start, s.duration(params))
	if err != nil {
		return domain.TimeWindow{}, &domain.UnparseableDateTimeError{Input: params.Time}
	}
	return window, nil
}

func (s *ChatService) duration(params domain.IntentParams) time.Duration {
	if params.DurationMinutes <= 0 {
		return s.hours.DefaultDuration
	}
	return time.Duration(params.DurationMinutes) * time.Minute
}

// renderError turns every scheduler or validation error into a
// clarifying or apologetic reply. Store failures on reads come out as
// "couldn't check right now", never as "unavailable".
func (s *ChatService) renderError(err error) string {
	var missing *domain.MissingParameterError
	if errors.As(err, &missing) {
		return fmt.Sprintf("I still need the %s for that. Could you provide it?", missing.Name)
	}

	var unparseable *domain.UnparseableDateTimeError
	if errors.As(err, &unparseable) {
		return fmt.Sprintf("I couldn't understand %q as a date or time. Please use something like \"2024-12-15\" or \"December 15, 2024 at 2:00 PM\".", unparseable.Input)
	}

	var taken *domain.SlotNoLongerAvailableError
	if errors.As(err, &taken) {
		return fmt.Sprintf("Sorry, the slot at %s has just been taken. Would you like to see other open times?",
			taken.Window.Start().Format(domain.SlotLabelLayout))
	}

	var failed *domain.BookingFailedError
	if errors.As(err, &failed) {
		return "I'm sorry, the booking didn't go through on the calendar side. Nothing was saved. Please try again in a moment."
	}

	if domain.IsStoreUnavailable(err) {
		return "I couldn't check the calendar right now. Please try again in a moment."
	}

	s.logger.Error("chat.reply.unexpected_error", out.LogFields{
		"error": err.Error(),
	})
	return fallbackReply
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
)

// scriptedAgent returns a canned intent result for any message.
type scriptedAgent struct {
	result *domain.IntentResult
	err    error
}

func (a *scriptedAgent) ExtractIntent(context.Context, []domain.Turn, string) (*domain.IntentResult, error) {
	return a.result, a.err
}

func newTestChatService(t *testing.T, store *fakeCalendar, agent *scriptedAgent) *ChatService {
	t.Helper()

	sessions, err := NewSessionManager(16, 10, nopLogger{})
	require.NoError(t, err)

	service := NewChatService(
		newTestScheduler(store),
		agent,
		sessions,
		nopLogger{},
		defaultHours(),
		time.UTC,
	)
	service.now = func() time.Time {
		return time.Date(2024, 12, 10, 11, 0, 0, 0, time.UTC)
	}
	return service
}

func TestHandleMessageBooksEndToEnd(t *testing.T) {
	store := &fakeCalendar{}
	agent := &scriptedAgent{result: &domain.IntentResult{
		Kind: domain.IntentBook,
		Params: domain.IntentParams{
			Title:           "Team Sync",
			Date:            "2024-12-15",
			Time:            "14:00",
			DurationMinutes: 30,
		},
	}}
	service := newTestChatService(t, store, agent)

	reply, err := service.HandleMessage(context.Background(), "", "book 'Team Sync' on 2024-12-15 at 14:00 for 30 minutes")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.SessionID)
	assert.Contains(t, reply.Text, "Team Sync")
	assert.Contains(t, reply.Text, "December 15, 2024")
	assert.Contains(t, reply.Text, "02:00 PM")
	assert.Contains(t, reply.Text, "30 minutes")

	// The booked window is busy afterwards.
	day := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	window := mustWindow(t, day.Add(14*time.Hour), 30*time.Minute)
	free, err := newTestScheduler(store).CheckAvailability(context.Background(), window)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestHandleMessageErrorRendering(t *testing.T) {
	tests := []struct {
		name     string
		store    *fakeCalendar
		result   *domain.IntentResult
		contains string
	}{
		{
			name:  "unparseable date asks for clarification",
			store: &fakeCalendar{},
			result: &domain.IntentResult{
				Kind:   domain.IntentListSlots,
				Params: domain.IntentParams{Date: "whenever"},
			},
			contains: `couldn't understand "whenever"`,
		},
		{
			name:  "missing date asks for the parameter",
			store: &fakeCalendar{},
			result: &domain.IntentResult{
				Kind: domain.IntentListSlots,
			},
			contains: "need the date",
		},
		{
			name:  "missing title when booking",
			store: &fakeCalendar{},
			result: &domain.IntentResult{
				Kind:   domain.IntentBook,
				Params: domain.IntentParams{Date: "2024-12-15", Time: "14:00"},
			},
			contains: "need the title",
		},
		{
			name:  "store failure on read renders as could-not-check",
			store: &fakeCalendar{listErr: &domain.StoreUnavailableError{Cause: errors.New("down")}},
			result: &domain.IntentResult{
				Kind:   domain.IntentCheckAvailability,
				Params: domain.IntentParams{Date: "2024-12-15", Time: "14:00"},
			},
			contains: "couldn't check the calendar right now",
		},
		{
			name: "occupied slot when booking suggests alternatives",
			store: &fakeCalendar{events: []domain.Event{{
				ID:    "existing",
				Start: time.Date(2024, 12, 15, 14, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 12, 15, 15, 0, 0, 0, time.UTC),
			}}},
			result: &domain.IntentResult{
				Kind:   domain.IntentBook,
				Params: domain.IntentParams{Title: "Team Sync", Date: "2024-12-15", Time: "14:00"},
			},
			contains: "just been taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestChatService(t, tt.store, &scriptedAgent{result: tt.result})

			reply, err := service.HandleMessage(context.Background(), "", "hello")
			require.NoError(t, err, "dispatcher must never surface an error")
			assert.Contains(t, reply.Text, tt.contains)
		})
	}
}

func TestHandleMessageCheckAvailability(t *testing.T) {
	t.Run("specific time that is free", func(t *testing.T) {
		service := newTestChatService(t, &fakeCalendar{}, &scriptedAgent{result: &domain.IntentResult{
			Kind:   domain.IntentCheckAvailability,
			Params: domain.IntentParams{Date: "December 15, 2024", Time: "2:00 PM"},
		}})

		reply, err := service.HandleMessage(context.Background(), "", "is 2pm free on the 15th?")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "is available")
	})

	t.Run("no time falls back to listing slots", func(t *testing.T) {
		service := newTestChatService(t, &fakeCalendar{}, &scriptedAgent{result: &domain.IntentResult{
			Kind:   domain.IntentCheckAvailability,
			Params: domain.IntentParams{Date: "2024-12-15"},
		}})

		reply, err := service.HandleMessage(context.Background(), "", "what's free on the 15th?")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Available time slots for December 15, 2024")
		assert.Contains(t, reply.Text, "09:00 AM")
	})
}

func TestHandleMessageSmalltalkAndAgentFailure(t *testing.T) {
	t.Run("smalltalk passes the agent reply through", func(t *testing.T) {
		service := newTestChatService(t, &fakeCalendar{}, &scriptedAgent{result: &domain.IntentResult{
			Kind:  domain.IntentSmalltalk,
			Reply: "Hi! I can help you book appointments.",
		}})

		reply, err := service.HandleMessage(context.Background(), "", "hi")
		require.NoError(t, err)
		assert.Equal(t, "Hi! I can help you book appointments.", reply.Text)
	})

	t.Run("agent failure degrades to an apology", func(t *testing.T) {
		service := newTestChatService(t, &fakeCalendar{}, &scriptedAgent{err: errors.New("model offline")})

		reply, err := service.HandleMessage(context.Background(), "", "hi")
		require.NoError(t, err)
		assert.Equal(t, fallbackReply, reply.Text)
	})
}

func TestHandleMessageKeepsSession(t *testing.T) {
	service := newTestChatService(t, &fakeCalendar{}, &scriptedAgent{result: &domain.IntentResult{
		Kind:  domain.IntentSmalltalk,
		Reply: "Hello!",
	}})

	first, err := service.HandleMessage(context.Background(), "", "hi")
	require.NoError(t, err)

	second, err := service.HandleMessage(context.Background(), first.SessionID, "hi again")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	session := service.sessions.GetOrCreate(first.SessionID)
	history := session.History()
	// Two exchanges, user and assistant turns each.
	require.Len(t, history, 4)
	assert.Equal(t, domain.TurnRoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.TurnRoleAssistant, history[3].Role)
}

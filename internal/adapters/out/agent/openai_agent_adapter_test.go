package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields) {}
func (nopLogger) Info(string, out.LogFields)  {}
func (nopLogger) Warn(string, out.LogFields)  {}
func (nopLogger) Error(string, out.LogFields) {}

func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

func completionWithToolCall(name, arguments string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": "",
					"tool_calls": []map[string]interface{}{
						{
							"function": map[string]interface{}{
								"name":      name,
								"arguments": arguments,
							},
						},
					},
				},
			},
		},
	}
}

func completionWithContent(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *OpenAIAgentAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIAgentAdapter(Config{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.1,
	}, nopLogger{})
}

func TestExtractIntent_BookToolCall(t *testing.T) {
	var captured chatCompletionRequest

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionWithToolCall("book_appointment",
			`{"title":"Team Sync","date":"2024-12-15","time":"14:00","duration_minutes":30}`))
	})

	history := []domain.Turn{
		{Role: domain.TurnRoleUser, Content: "Is Sunday free?"},
		{Role: domain.TurnRoleAssistant, Content: "Yes, December 15 is wide open."},
	}

	result, err := adapter.ExtractIntent(context.Background(), history, "Book a team sync at 2pm then")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentBook, result.Kind)
	assert.Equal(t, "Team Sync", result.Params.Title)
	assert.Equal(t, "2024-12-15", result.Params.Date)
	assert.Equal(t, "14:00", result.Params.Time)
	assert.Equal(t, 30, result.Params.DurationMinutes)

	// system prompt, two history turns, new message
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "Book a team sync at 2pm then", captured.Messages[3].Content)
	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Tools, 3)
}

func TestExtractIntent_ListSlotsToolCall(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionWithToolCall("get_available_slots",
			`{"date":"tomorrow"}`))
	})

	result, err := adapter.ExtractIntent(context.Background(), nil, "What's open tomorrow?")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentListSlots, result.Kind)
	assert.Equal(t, "tomorrow", result.Params.Date)
	assert.Zero(t, result.Params.DurationMinutes)
}

func TestExtractIntent_PlainReplyIsSmalltalk(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionWithContent("Hello! I can help you book appointments."))
	})

	result, err := adapter.ExtractIntent(context.Background(), nil, "hi")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSmalltalk, result.Kind)
	assert.Equal(t, "Hello! I can help you book appointments.", result.Reply)
}

func TestExtractIntent_UnknownToolFallsBackToSmalltalk(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionWithToolCall("delete_calendar", `{}`))
	})

	result, err := adapter.ExtractIntent(context.Background(), nil, "do something weird")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSmalltalk, result.Kind)
}

func TestExtractIntent_BadStatus(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := adapter.ExtractIntent(context.Background(), nil, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestExtractIntent_MalformedArguments(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionWithToolCall("book_appointment", `{"title":`))
	})

	_, err := adapter.ExtractIntent(context.Background(), nil, "book it")
	require.Error(t, err)
}

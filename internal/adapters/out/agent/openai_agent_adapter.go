package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

const systemPrompt = `You are TailorTalk, a friendly and efficient calendar booking assistant. You help users book appointments through natural conversation.

Use the tools to check availability, list open slots and book appointments. Ask for clarification when the date, time or appointment title is missing, and confirm details before booking. If the user is just chatting, answer directly without calling a tool.`

// toolNames maps the function-calling tool names to intent kinds.
var toolNames = map[string]domain.IntentKind{
	"check_availability":  domain.IntentCheckAvailability,
	"get_available_slots": domain.IntentListSlots,
	"book_appointment":    domain.IntentBook,
}

// OpenAIAgentAdapter implements AgentPort over any OpenAI-compatible
// chat-completions API with native tool calling.
type OpenAIAgentAdapter struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	logger      out.LoggerPort
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func NewOpenAIAgentAdapter(cfg Config, logger out.LoggerPort) *OpenAIAgentAdapter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &OpenAIAgentAdapter{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger.WithModule("OpenAIAgentAdapter"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolDefinition struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessage    `json:"messages"`
	Tools       []toolDefinition `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
	Temperature float64          `json:"temperature"`
	Stream      bool             `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractIntent sends the conversation window plus the new message and
// turns the model's tool call, if any, into a structured intent. A
// plain text answer comes back as smalltalk.
func (a *OpenAIAgentAdapter) ExtractIntent(ctx context.Context, history []domain.Turn, message string) (*domain.IntentResult, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Tools:       schedulingTools(),
		ToolChoice:  "auto",
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, err
	}

	url := a.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("agent.completion.request_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		a.logger.Error("agent.completion.bad_status", out.LogFields{
			"status": resp.StatusCode,
			"body":   string(payload),
		})
		return nil, fmt.Errorf("agent completion: unexpected status code: %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		a.logger.Error("agent.completion.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("agent completion: empty choices")
	}

	choice := completion.Choices[0].Message
	if len(choice.ToolCalls) == 0 {
		a.logger.Debug("agent.completion.reply", out.LogFields{
			"length": len(choice.Content),
		})
		return &domain.IntentResult{
			Kind:  domain.IntentSmalltalk,
			Reply: choice.Content,
		}, nil
	}

	call := choice.ToolCalls[0].Function
	kind, known := toolNames[call.Name]
	if !known {
		a.logger.Warn("agent.completion.unknown_tool", out.LogFields{
			"tool": call.Name,
		})
		return &domain.IntentResult{
			Kind:  domain.IntentSmalltalk,
			Reply: choice.Content,
		}, nil
	}

	var params domain.IntentParams
	if err := json.Unmarshal([]byte(call.Arguments), &params); err != nil {
		a.logger.Error("agent.completion.decode_arguments_failed", out.LogFields{
			"tool":  call.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Info("agent.completion.tool_call", out.LogFields{
		"tool": call.Name,
	})

	return &domain.IntentResult{
		Kind:       kind,
		Params:     params,
		Reply:      choice.Content,
		Confidence: 1,
	}, nil
}

func schedulingTools() []toolDefinition {
	dateProp := map[string]interface{}{
		"type":        "string",
		"description": "Date in a clear format, e.g. '2024-12-15' or 'December 15, 2024'",
	}
	timeProp := map[string]interface{}{
		"type":        "string",
		"description": "Clock time, e.g. '14:00' or '2:00 PM'",
	}
	durationProp := map[string]interface{}{
		"type":        "integer",
		"description": "Duration in minutes, default 60",
	}

	return []toolDefinition{
		{
			Type: "function",
			Function: toolFunction{
				Name:        "check_availability",
				Description: "Check whether a specific date and optionally time is available.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"date":             dateProp,
						"time":             timeProp,
						"duration_minutes": durationProp,
					},
					"required": []string{"date"},
				},
			},
		},
		{
			Type: "function",
			Function: toolFunction{
				Name:        "get_available_slots",
				Description: "List all open time slots on a given date.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"date":             dateProp,
						"duration_minutes": durationProp,
					},
					"required": []string{"date"},
				},
			},
		},
		{
			Type: "function",
			Function: toolFunction{
				Name:        "book_appointment",
				Description: "Book an appointment once the user has confirmed title, date and time.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title":            map[string]interface{}{"type": "string"},
						"date":             dateProp,
						"time":             timeProp,
						"duration_minutes": durationProp,
						"description":      map[string]interface{}{"type": "string"},
						"attendee": map[string]interface{}{
							"type":        "string",
							"description": "Attendee email address",
						},
					},
					"required": []string{"title", "date", "time"},
				},
			},
		},
	}
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tailortalk/booking-assistant/internal/config"
	"github.com/tailortalk/booking-assistant/internal/core/ports/in"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

type ChangeType string

const (
	ChangeTypeCreated   ChangeType = "created"
	ChangeTypeUpdated   ChangeType = "updated"
	ChangeTypeCancelled ChangeType = "cancelled"
)

// CalendarChangeMessage announces that an event changed in the remote
// calendar store, so cached slot lists for that day are stale.
type CalendarChangeMessage struct {
	CalendarID string `json:"calendarId"`
	Start      string `json:"start"`
}

// CalendarChangeListener consumes change notifications and invalidates
// the affected day in the slot cache. Routing keys look like
// calendar.event.created, calendar.event.cancelled.
type CalendarChangeListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.SchedulerUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewCalendarChangeListener(useCase in.SchedulerUseCase, cfg *config.Config, logger out.LoggerPort) (*CalendarChangeListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &CalendarChangeListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger.WithModule("CalendarChangeListener"),
	}, nil
}

func (l *CalendarChangeListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMQ.Binding,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				l.processMessage(ctx, msg)
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("rabbitmq.queue.started", out.LogFields{
		"queue":    queue.Name,
		"exchange": l.cfg.RabbitMQ.Exchange,
		"binding":  l.cfg.RabbitMQ.Binding,
	})

	return nil
}

// Malformed messages are acked and dropped. Requeueing them would loop
// forever, and the cache only loses freshness, not correctness.
func (l *CalendarChangeListener) processMessage(ctx context.Context, msg amqp.Delivery) {
	change := changeTypeFromRoutingKey(msg.RoutingKey)
	if change == "" {
		l.logger.Warn("calendar_change.unknown_routing_key", out.LogFields{
			"routingKey": msg.RoutingKey,
		})
		return
	}

	var payload CalendarChangeMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		l.logger.Warn("calendar_change.malformed_message", out.LogFields{
			"error": err.Error(),
			"body":  string(msg.Body),
		})
		return
	}

	start, err := time.Parse(time.RFC3339, payload.Start)
	if err != nil {
		l.logger.Warn("calendar_change.invalid_start", out.LogFields{
			"error": err.Error(),
			"start": payload.Start,
		})
		return
	}

	calendarID := payload.CalendarID
	if calendarID == "" {
		calendarID = l.cfg.Google.CalendarID
	}

	l.useCase.InvalidateDay(ctx, calendarID, start)

	l.logger.Info("calendar_change.day_invalidated", out.LogFields{
		"calendarId": calendarID,
		"change":     change,
		"day":        start.Format("2006-01-02"),
	})
}

// calendar.event.created -> created
func changeTypeFromRoutingKey(routingKey string) ChangeType {
	parts := strings.Split(routingKey, ".")
	if len(parts) < 3 {
		return ""
	}

	switch ChangeType(parts[2]) {
	case ChangeTypeCreated, ChangeTypeUpdated, ChangeTypeCancelled:
		return ChangeType(parts[2])
	default:
		return ""
	}
}

func (l *CalendarChangeListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

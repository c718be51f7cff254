// Package events публикует события бронирований во внешнюю очередь.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/grooming-booking/internal/config"
	"github.com/Leganyst/grooming-booking/internal/model"
)

// Message — тело сообщения в очереди.
type Message struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	BookingID  string          `json:"booking_id"`
	CustomerID string          `json:"customer_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func NewMessage(ev model.BookingEvent) Message {
	msg := Message{
		ID:        ev.ID.String(),
		Type:      string(ev.EventType),
		BookingID: ev.BookingID.String(),
		CreatedAt: ev.CreatedAt.UTC(),
	}
	if ev.CustomerID != nil {
		msg.CustomerID = ev.CustomerID.String()
	}
	if len(ev.Details) > 0 {
		msg.Details = json.RawMessage(ev.Details)
	}
	return msg
}

// channel — часть *amqp.Channel, которой пользуется Publisher.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher реализует booking.Notifier поверх RabbitMQ.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    channel
	queue string
	log   *logrus.Entry
}

func NewPublisher(cfg *config.AMQPConfig, log *logrus.Entry) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newPublisher(ch, cfg.Queue, log)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, queue string, log *logrus.Entry) (*Publisher, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &Publisher{ch: ch, queue: queue, log: log.WithField("queue", queue)}, nil
}

func (p *Publisher) Publish(ctx context.Context, ev model.BookingEvent) error {
	body, err := json.Marshal(NewMessage(ev))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// amqp.Channel не безопасен для конкурентной публикации
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Type:         string(ev.EventType),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.EventType, err)
	}
	p.log.WithFields(logrus.Fields{
		"event":      ev.EventType,
		"booking_id": ev.BookingID,
	}).Debug("event published")
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// LogNotifier пишет события в лог, когда брокер не настроен.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Publish(_ context.Context, ev model.BookingEvent) error {
	n.log.WithFields(logrus.Fields{
		"event":      ev.EventType,
		"booking_id": ev.BookingID,
	}).Info("booking event")
	return nil
}

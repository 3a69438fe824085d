// Package amqp fans record changes out to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/starford/tablero/internal/models"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 256
)

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher publishes change messages with routing key
// "<collection>.<kind>". Listen queues changes; Run publishes them.
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	logger   *slog.Logger
	queue    chan models.Change
}

// Dial connects to the broker and declares a durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
		queue:    make(chan models.Change, queueSize),
	}
}

// Listen queues c for publishing without blocking. Changes are dropped when
// the queue is full.
func (p *Publisher) Listen(c models.Change) {
	select {
	case p.queue <- c:
	default:
		p.logger.Warn("amqp: queue full, change dropped", slog.String("topic", c.Topic()))
	}
}

// Run publishes queued changes until ctx is done.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-p.queue:
			if err := p.Publish(ctx, c); err != nil {
				p.logger.Error("amqp: publish failed",
					slog.String("topic", c.Topic()), slog.String("error", err.Error()))
			}
		}
	}
}

// Publish sends one change message.
func (p *Publisher) Publish(ctx context.Context, c models.Change) error {
	msg := NewChangeMessage(c)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		msg.RoutingKey(), // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.Debug("amqp: published",
		slog.String("exchange", p.exchange), slog.String("routing_key", msg.RoutingKey()))
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Package messaging forwards domain events to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/infrastructure/config"
)

const (
	defaultPoolSize       = 4
	defaultPublishTimeout = 5 * time.Second
	exchangeKind          = "topic"
)

// ErrNoChannel is returned when every pooled channel is in use
var ErrNoChannel = errors.New("messaging: no channels available in pool")

// Message is a message handed to a MessagePublisher
type Message struct {
	ID        string
	Type      string
	Timestamp time.Time
	Headers   map[string]any
	Body      []byte
}

// MessagePublisher publishes messages under a routing key
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg Message) error
}

// RabbitMQPublisher publishes persistent JSON messages to a topic exchange
// over a pool of channels on one connection.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channels chan *amqp.Channel
	exchange string
	timeout  time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
}

// PublisherOption configures a RabbitMQPublisher
type PublisherOption func(*publisherOptions)

type publisherOptions struct {
	poolSize int
	timeout  time.Duration
	logger   *zap.Logger
}

// WithPoolSize sets the number of pooled channels
func WithPoolSize(n int) PublisherOption {
	return func(o *publisherOptions) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithPublishTimeout bounds a single publish
func WithPublishTimeout(d time.Duration) PublisherOption {
	return func(o *publisherOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PublisherOption {
	return func(o *publisherOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewRabbitMQPublisher dials the broker, declares the exchange and fills the channel pool
func NewRabbitMQPublisher(cfg config.MessagingConfig, opts ...PublisherOption) (*RabbitMQPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("messaging url is required")
	}
	if cfg.Exchange == "" {
		return nil, errors.New("messaging exchange is required")
	}
	o := publisherOptions{
		poolSize: defaultPoolSize,
		timeout:  defaultPublishTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	p := &RabbitMQPublisher{
		conn:     conn,
		channels: make(chan *amqp.Channel, o.poolSize),
		exchange: cfg.Exchange,
		timeout:  o.timeout,
		logger:   o.logger,
	}
	for i := 0; i < o.poolSize; i++ {
		ch, err := p.openChannel()
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		p.channels <- ch
	}

	p.logger.Info("RabbitMQ publisher ready",
		zap.String("exchange", cfg.Exchange),
		zap.Int("channels", o.poolSize),
	)
	return p, nil
}

func (p *RabbitMQPublisher) openChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		p.exchange,   // name
		exchangeKind, // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return ch, nil
}

func (p *RabbitMQPublisher) acquire() (*amqp.Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, errors.New("messaging: publisher is closed")
		}
		if ch.IsClosed() {
			return p.openChannel()
		}
		return ch, nil
	default:
		return nil, ErrNoChannel
	}
}

func (p *RabbitMQPublisher) release(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		_ = ch.Close()
	}
}

// Publish sends msg to the exchange under routingKey
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, msg Message) error {
	ch, err := p.acquire()
	if err != nil {
		return err
	}
	defer p.release(ch)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.ID,
			Type:         msg.Type,
			Timestamp:    msg.Timestamp,
			Headers:      amqp.Table(msg.Headers),
			Body:         msg.Body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message %s: %w", msg.ID, err)
	}
	return nil
}

// Close closes all pooled channels and the connection
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		_ = ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ MessagePublisher = (*RabbitMQPublisher)(nil)

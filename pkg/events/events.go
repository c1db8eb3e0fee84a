// Package events publishes settlement domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"brandhub/pkg/logger"
)

const (
	RoutingSettlementCompleted = "settlement.completed"
	RoutingReferralEarned      = "commission.referral.earned"
	RoutingReferralPaid        = "commission.referral.paid"
	RoutingPrEarned            = "commission.pr.earned"
	RoutingPrPaid              = "commission.pr.paid"
)

// Envelope is the body of every published event.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher is implemented by every event sink.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, data interface{}) error
	Close()
}

// Producer publishes to a durable topic exchange over AMQP.
type Producer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewProducer dials RabbitMQ and declares the exchange.
func NewProducer(amqpURL, exchange string) (*Producer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Producer{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *Producer) Publish(ctx context.Context, routingKey string, data interface{}) error {
	body, err := json.Marshal(Envelope{Type: routingKey, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return err
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}
	// one reopen attempt; channels die on any protocol error
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return err
	}
	p.channel = ch
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Fallback only logs; used when AMQP is not configured or unreachable at startup.
type Fallback struct {
	Log *logger.Logger
}

func (f *Fallback) Publish(ctx context.Context, routingKey string, data interface{}) error {
	if f.Log != nil {
		f.Log.WithField("routing_key", routingKey).Debug("event publish skipped (no broker)")
	}
	return nil
}

func (f *Fallback) Close() {}

// Multi fans an event out to several publishers and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, routingKey string, data interface{}) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, routingKey, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() {
	for _, p := range m {
		p.Close()
	}
}

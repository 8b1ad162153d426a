// Package events publishes domain events to the message bus.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// SubjectCheckout is the default subject for completed checkouts.
const SubjectCheckout = "qkart.cart.checkout"

// CheckoutEvent is published after a cart has been checked out.
type CheckoutEvent struct {
	Email     string          `json:"email"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	At        time.Time       `json:"at"`
}

// NewCheckoutEvent summarizes cart as it was just before checkout cleared it.
func NewCheckoutEvent(cart *domain.Cart, at time.Time) CheckoutEvent {
	return CheckoutEvent{
		Email:     cart.Email,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
		At:        at.UTC(),
	}
}

// Publisher sends an event payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
}

// NATSPublisher publishes JSON-encoded events over a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("qkart"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	logger.Info("connected to nats", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Publish encodes v as JSON and publishes it on subject.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event for %s: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NoopPublisher discards every event. Used when no NATS URL is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

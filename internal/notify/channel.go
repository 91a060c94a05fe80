// Package notify maintains the live order-notification channel. The
// dashboard shows new orders as they happen; here the events are consumed
// over NATS and handed to a callback.
//
// The channel authenticates with the session's current access token. It
// implements session.Listener so a token rotation transparently reconnects
// it with the new credential, and a dead session closes it.
package notify

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jsalmela/apteekki-admin/internal/session"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

var _ session.Listener = (*Channel)(nil)

// OrdersSubject covers order lifecycle events (orders.created,
// orders.status_changed, ...).
const OrdersSubject = "orders.>"

// OrderEvent is the payload published on order subjects.
type OrderEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Handler receives decoded order events.
type Handler func(subject string, event OrderEvent)

// Channel is a token-authenticated NATS subscription with automatic
// credential rotation.
type Channel struct {
	url     string
	name    string
	handler Handler

	mu   sync.Mutex
	conn *nats.Conn
}

// NewChannel creates a channel for the given NATS endpoint. The name is
// used as the connection name, typically the per-install client ID.
func NewChannel(url, name string, handler Handler) *Channel {
	return &Channel{
		url:     url,
		name:    name,
		handler: handler,
	}
}

// Connect establishes the connection and subscription using accessToken as
// the credential. An existing connection is closed first. Low-level
// reconnects (network blips) are the NATS client's own; only a credential
// change needs to come back through here.
func (ch *Channel) Connect(accessToken string) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.closeLocked()

	conn, err := nats.Connect(ch.url,
		nats.Name(ch.name),
		nats.Token(accessToken),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("order channel disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("order channel reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect order channel: %w", err)
	}

	if _, err := conn.Subscribe(OrdersSubject, ch.dispatch); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", OrdersSubject, err)
	}

	ch.conn = conn
	log.Info().Str("url", ch.url).Msg("order channel connected")
	return nil
}

func (ch *Channel) dispatch(msg *nats.Msg) {
	var event OrderEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("undecodable order event")
		return
	}
	ch.handler(msg.Subject, event)
}

// TokenRefreshed reconnects with the rotated credential. Part of the
// session.Listener contract.
func (ch *Channel) TokenRefreshed(accessToken string) {
	if err := ch.Connect(accessToken); err != nil {
		log.Error().Err(err).Msg("failed to reconnect order channel after token refresh")
	}
}

// SessionInvalid closes the channel; there is no credential to connect
// with anymore. Part of the session.Listener contract.
func (ch *Channel) SessionInvalid() {
	ch.Close()
}

// Close drains and closes the connection. Safe to call when not connected.
func (ch *Channel) Close() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.closeLocked()
}

func (ch *Channel) closeLocked() {
	if ch.conn == nil {
		return
	}
	if err := ch.conn.Drain(); err != nil {
		ch.conn.Close()
	}
	ch.conn = nil
}

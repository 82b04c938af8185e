// Package notify announces finished builds on a NATS subject.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wwscc/distbuilder/internal/config"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// conn is the subset of *nats.Conn the notifier needs.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes build announcements.
type NATSNotifier struct {
	conn    conn
	url     string
	subject string
}

// Connect dials the configured NATS server.
func Connect(cfg *config.NotifyConfig) (*NATSNotifier, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, derrors.ValidationFailed("notify.url", "required")
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name("distbuilder"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, derrors.NetworkTimeout(cfg.URL, fmt.Errorf("failed to connect to NATS: %w", err))
	}
	slog.Debug("NATS connection established", logfields.URL(cfg.URL))
	return &NATSNotifier{conn: nc, url: cfg.URL, subject: cfg.Subject}, nil
}

// Notify publishes payload and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, payload []byte) error {
	if err := n.conn.Publish(n.subject, payload); err != nil {
		return derrors.PublishFailed(n.subject, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return derrors.NetworkTimeout(n.url, fmt.Errorf("flush: %w", err))
	}
	slog.Info("Build announced", slog.String("subject", n.subject), logfields.Bytes(int64(len(payload))))
	return nil
}

// Close releases the connection.
func (n *NATSNotifier) Close() {
	if n != nil && n.conn != nil {
		n.conn.Close()
	}
}

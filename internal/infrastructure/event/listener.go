package event

import (
	"context"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bizcentral/backend/internal/domain/shared"
)

// NotifyChannel is the LISTEN/NOTIFY channel the upstream application
// publishes document change notifications on.
const NotifyChannel = "document_changes"

// PgListener consumes document change notifications from a postgres
// LISTEN/NOTIFY channel, decodes them, and publishes the resulting domain
// events on the bus. Delivery is at-least-once: reconnects can replay
// notifications, which is why every handler downstream is idempotent.
type PgListener struct {
	listener *pq.Listener
	codec    *Codec
	bus      shared.EventPublisher
	logger   *zap.Logger
	done     chan struct{}
}

// NewPgListener creates a listener on the given DSN. connectEvents from the
// underlying driver (connect, disconnect, reconnect) are logged.
func NewPgListener(dsn string, codec *Codec, bus shared.EventPublisher, log *zap.Logger) *PgListener {
	pl := &PgListener{
		codec:  codec,
		bus:    bus,
		logger: log,
		done:   make(chan struct{}),
	}
	pl.listener = pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("listener connection event",
				zap.Int("event", int(ev)),
				zap.Error(err),
			)
		}
	})
	return pl
}

// Start subscribes to the notify channel and consumes notifications until
// the context is canceled. Blocks; run it in its own goroutine.
func (l *PgListener) Start(ctx context.Context) error {
	if err := l.listener.Listen(NotifyChannel); err != nil {
		return err
	}
	l.logger.Info("listening for document changes", zap.String("channel", NotifyChannel))

	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-l.listener.Notify:
			if n == nil {
				// nil means the connection was re-established; notifications
				// in flight during the outage may have been missed.
				l.logger.Warn("listener reconnected, notifications may have been dropped")
				continue
			}
			l.handleNotification(ctx, n.Extra)
		case <-time.After(90 * time.Second):
			if err := l.listener.Ping(); err != nil {
				l.logger.Warn("listener ping failed", zap.Error(err))
			}
		}
	}
}

// Stop tears down the database listener and waits for the consume loop.
func (l *PgListener) Stop(ctx context.Context) error {
	err := l.listener.Close()
	select {
	case <-l.done:
	case <-ctx.Done():
	}
	return err
}

func (l *PgListener) handleNotification(ctx context.Context, payload string) {
	events, err := l.codec.Decode([]byte(payload))
	if err != nil {
		// Rejected documents are dropped loudly; the source keeps the
		// document, so a fixed producer can resend the notification.
		l.logger.Error("rejected document notification", zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}
	if err := l.bus.Publish(ctx, events...); err != nil {
		l.logger.Error("failed to publish decoded events", zap.Error(err))
	}
}

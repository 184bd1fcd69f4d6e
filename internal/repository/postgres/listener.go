package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"dresscodeplanner/internal/domain"
)

// eventsChannel is the NOTIFY channel fired by the events table trigger.
const eventsChannel = "events_changes"

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
)

type eventSubscriber struct {
	connStr string
	logger  *slog.Logger
}

// NewEventSubscriber returns an EventSubscriber that delivers change
// notifications over a dedicated LISTEN connection.
func NewEventSubscriber(connStr string, logger *slog.Logger) domain.EventSubscriber {
	return &eventSubscriber{connStr: connStr, logger: logger}
}

type subscription struct {
	listener *pq.Listener
	done     chan struct{}
}

func (s *subscription) Close() error {
	close(s.done)
	return s.listener.Close()
}

// Subscribe opens the change feed and invokes fn for every event mutation
// until the subscription is closed or ctx is cancelled. fn is called from a
// single goroutine; notifications for one subscription are never concurrent.
func (s *eventSubscriber) Subscribe(ctx context.Context, fn func(domain.EventChange)) (domain.Subscription, error) {
	listener := pq.NewListener(s.connStr, listenerMinReconnect, listenerMaxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.Error("event listener connection problem", "error", err)
		}
	})
	if err := listener.Listen(eventsChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", eventsChannel, err)
	}

	sub := &subscription{listener: listener, done: make(chan struct{})}
	go s.run(ctx, sub, fn)
	return sub, nil
}

func (s *eventSubscriber) run(ctx context.Context, sub *subscription, fn func(domain.EventChange)) {
	for {
		select {
		case <-ctx.Done():
			sub.listener.Close()
			return
		case <-sub.done:
			return
		case n, ok := <-sub.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// Reconnect marker; nothing to deliver.
				continue
			}
			var change domain.EventChange
			if err := json.Unmarshal([]byte(n.Extra), &change); err != nil {
				s.logger.Warn("dropping malformed event notification", "payload", n.Extra, "error", err)
				continue
			}
			fn(change)
		}
	}
}

package messaging

import (
	"context"
	"log/slog"
	"sync"

	"clearwater/internal/shared/events"
)

// Bus is the in-process event channel used when no external broker is
// configured. Publish never blocks the caller: slow subscribers drop.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
			)
		}
	}

	b.logger.Info("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

// Subscribe registers a buffered channel for a topic. The channel is
// owned by the bus; callers stop reading by cancelling their consumer.
func (b *Bus) Subscribe(topic string) <-chan events.Envelope {
	ch := make(chan events.Envelope, 64)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}

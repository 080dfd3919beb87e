package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is the payload pushed to connected viewers when content changes.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	UpdateID  string `json:"updateId"`
}

func NewEvent(eventType string) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		UpdateID:  uuid.NewString(),
	}
}

const subscriberBuffer = 8

type subscriber struct {
	ch    chan Event
	stale bool
}

// Notifier is a best-effort broadcast channel. Delivery is not guaranteed:
// subscribers that connect after an event or drop before it are simply not
// backfilled. A subscriber that stops draining its channel is marked stale
// and removed by the next sweep, so dead connections cannot accumulate
// forever.
type Notifier struct {
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
}

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		subs:   make(map[uint64]*subscriber),
	}
}

// Subscribe registers a new viewer connection and returns its handle and
// event channel. The channel is closed on Unsubscribe or when the sweep
// removes a stale subscriber.
func (n *Notifier) Subscribe() (uint64, <-chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	n.subs[id] = sub
	return id, sub.ch
}

func (n *Notifier) Unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sub, ok := n.subs[id]; ok {
		delete(n.subs, id)
		close(sub.ch)
	}
}

// Publish fans the event out to every live subscriber without blocking. A
// subscriber whose buffer is full is marked stale for the next sweep.
func (n *Notifier) Publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, sub := range n.subs {
		if sub.stale {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			sub.stale = true
			n.logger.Debug("subscriber not draining, marked stale", zap.Uint64("subscriber", id))
		}
	}
	n.logger.Info("event published",
		zap.String("type", ev.Type),
		zap.String("update_id", ev.UpdateID),
		zap.Int("subscribers", len(n.subs)))
}

// Sweep drops subscribers that stopped draining their channels.
func (n *Notifier) Sweep() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	removed := 0
	for id, sub := range n.subs {
		if sub.stale {
			delete(n.subs, id)
			close(sub.ch)
			removed++
		}
	}
	if removed > 0 {
		n.logger.Info("swept stale subscribers", zap.Int("removed", removed))
	}
	return removed
}

// Run sweeps periodically until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Len reports the current number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

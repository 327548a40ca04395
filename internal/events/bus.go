package events

import (
	"log/slog"
	"sync"

	"github.com/dukerupert/weeklyeats/internal/model"
)

type Kind string

const (
	KindAdd    Kind = "add"
	KindRemove Kind = "remove"
	KindToggle Kind = "toggle"
	KindClear  Kind = "clear"
)

// Event is a structural change to a grocery list.
type Event struct {
	Type    Kind                `json:"type"`
	ListID  int64               `json:"listId,omitempty"`
	Items   []model.GroceryItem `json:"items,omitempty"`
	ItemID  int64               `json:"itemId,omitempty"`
	Checked *bool               `json:"checked,omitempty"`
}

func Add(listID int64, items []model.GroceryItem) Event {
	return Event{Type: KindAdd, ListID: listID, Items: items}
}

func Remove(listID, itemID int64) Event {
	return Event{Type: KindRemove, ListID: listID, ItemID: itemID}
}

func Toggle(listID, itemID int64, checked bool) Event {
	return Event{Type: KindToggle, ListID: listID, ItemID: itemID, Checked: &checked}
}

func Clear(listID int64) Event {
	return Event{Type: KindClear, ListID: listID}
}

// DefaultBuffer is the per-subscriber queue length used by the websocket
// clients.
const DefaultBuffer = 16

// Bus fans grocery events out to subscribers. The zero value is not usable;
// construct one with NewBus and Close it on shutdown.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscription receives events on C until Close is called or the bus is
// closed, at which point C is closed.
type Subscription struct {
	C    <-chan Event
	ch   chan Event
	bus  *Bus
	once sync.Once
}

// Subscribe registers a subscriber with a queue of buffer events. Subscribing
// to a closed bus returns a subscription whose channel is already closed.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s := &Subscription{C: ch, ch: ch, bus: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.once.Do(func() { close(ch) })
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Close unsubscribes s. It is safe to call more than once.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs, s)
	s.once.Do(func() { close(s.ch) })
}

// Publish delivers e to every subscriber without blocking. Subscribers whose
// queue is full miss the event.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		select {
		case s.ch <- e:
		default:
			b.logger.Debug("dropped event for slow subscriber", "type", e.Type)
		}
	}
}

// Close closes every subscription. Later publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		s.once.Do(func() { close(s.ch) })
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

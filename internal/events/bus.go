package events

import (
	"log/slog"
	"sync"
)

// Kind names what changed
type Kind string

const (
	SessionChanged Kind = "session-changed" // login, logout or restore
	DeckChanged    Kind = "deck-changed"    // a game was saved or the deck reloaded
	StreakUpdated  Kind = "streak-updated"  // a login moved the streak
)

// Event is delivered to subscribers after a state change has been persisted
type Event struct {
	Kind     Kind
	Username string
	// GameID is set for DeckChanged events caused by a single save
	GameID string
}

// Listener receives events
type Listener func(Event)

// Bus fans events out to listeners synchronously, in subscription order.
// Presentation layers subscribe instead of binding to reactive state.
type Bus struct {
	mu        sync.RWMutex
	listeners map[int]Listener
	order     []int
	nextID    int
	logger    *slog.Logger
}

// NewBus creates an empty Bus
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		listeners: make(map[int]Listener),
		logger:    logger.With(slog.String("component", "events")),
	}
}

// Subscribe registers fn and returns a function that removes it
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every current listener.
// Listeners may subscribe or unsubscribe from within the callback.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	fns := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.listeners[id])
	}
	b.mu.RUnlock()

	b.logger.Debug("event published",
		slog.String("kind", string(e.Kind)),
		slog.String("username", e.Username),
		slog.Int("listeners", len(fns)))

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of subscribed listeners
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

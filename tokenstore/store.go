package tokenstore

import (
	"context"
	"sync"
)

// Pair is the access/refresh token pair owned by the store. The refresh token
// is a reserved slot: the remote authority issues one but exposes no exchange
// endpoint yet. A zero Pair means "absent".
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Op identifies the kind of store mutation carried by an [Event].
type Op string

const (
	// OpPut signals that a token pair was written.
	OpPut Op = "put"
	// OpClear signals that the token pair was removed.
	OpClear Op = "clear"
)

// Event is a store-change notification. Origin identifies the execution
// context that performed the write, so watchers can ignore their own
// mutations.
type Event struct {
	Op     Op     `json:"op"`
	Origin string `json:"origin"`
}

// Store is the token pair persistence contract. All operations are
// idempotent; Get never fails merely because the pair is absent.
type Store interface {
	Put(ctx context.Context, pair Pair) error
	Get(ctx context.Context) (Pair, bool, error)
	Clear(ctx context.Context) error
}

// Watcher is an optional Store capability: a stream of change events,
// at-least-once, including the watcher's own writes. The channel closes when
// ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Memory is a process-local Store for tests and single-context embedding.
// It implements [Watcher] by fanning events out to every active watch.
type Memory struct {
	origin string

	mu       sync.Mutex
	pair     Pair
	present  bool
	watchers map[int]chan Event
	nextID   int
}

// NewMemory creates an empty in-process store. origin stamps the events this
// store emits for its own writes.
func NewMemory(origin string) *Memory {
	return &Memory{
		origin:   origin,
		watchers: make(map[int]chan Event),
	}
}

// Put stores the pair, replacing any previous value.
func (m *Memory) Put(_ context.Context, pair Pair) error {
	m.mu.Lock()
	m.pair = pair
	m.present = pair != Pair{}
	m.broadcastLocked(Event{Op: OpPut, Origin: m.origin})
	m.mu.Unlock()
	return nil
}

// Get returns the stored pair and whether one is present.
func (m *Memory) Get(_ context.Context) (Pair, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, m.present, nil
}

// Clear removes the stored pair. Clearing an empty store still emits the
// event; delivery is at-least-once, not exactly-once.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.pair = Pair{}
	m.present = false
	m.broadcastLocked(Event{Op: OpClear, Origin: m.origin})
	m.mu.Unlock()
	return nil
}

// Watch registers a change listener. The returned channel is buffered and
// drops events if the consumer falls behind.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (m *Memory) broadcastLocked(event Event) {
	for _, ch := range m.watchers {
		select {
		case ch <- event:
		default:
		}
	}
}

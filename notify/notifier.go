package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Kind identifies the session transition carried by an [Event].
type Kind string

const (
	// KindSessionChanged announces a new session snapshot (login, role
	// change, or teardown); User is nil when the session ended.
	KindSessionChanged Kind = "session_changed"
	// KindLogout announces an explicit logout; it carries no payload.
	KindLogout Kind = "logout"
)

// User is the notifier-local user shape carried in session-changed events.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Event is one session transition notification.
type Event struct {
	Kind   Kind   `json:"kind"`
	Origin string `json:"origin"`
	User   *User  `json:"user,omitempty"`
}

// Listener receives events. Same-context delivery is synchronous: a listener
// runs on the emitting goroutine and must not block.
type Listener func(Event)

// Notifier fans session transitions out to local listeners and, when built
// with a Redis client, to other contexts on the same channel.
type Notifier struct {
	origin  string
	channel string
	client  *redis.Client
	log     zerolog.Logger

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New creates a Notifier. client may be nil for single-context use; origin
// identifies this context in outgoing events.
func New(origin, channel string, client *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{
		origin:    origin,
		channel:   channel,
		client:    client,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener and returns its cancel function.
func (n *Notifier) Subscribe(fn Listener) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// SessionChanged emits a session-changed event: synchronously to local
// listeners, best-effort to other contexts.
func (n *Notifier) SessionChanged(ctx context.Context, user *User) {
	n.emit(ctx, Event{Kind: KindSessionChanged, Origin: n.origin, User: user})
}

// Logout emits a logout event: synchronously to local listeners, best-effort
// to other contexts.
func (n *Notifier) Logout(ctx context.Context) {
	n.emit(ctx, Event{Kind: KindLogout, Origin: n.origin})
}

// Run consumes broadcasts from other contexts until ctx is done, delivering
// each foreign event to local listeners. It is a no-op without a Redis
// client.
func (n *Notifier) Run(ctx context.Context) error {
	if n.client == nil {
		<-ctx.Done()
		return nil
	}

	sub := n.client.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	defer func() { _ = sub.Close() }()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				n.log.Debug().Err(err).Msg("discarding malformed session event")
				continue
			}
			if event.Origin == n.origin {
				continue
			}
			n.deliver(event)
		}
	}
}

func (n *Notifier) emit(ctx context.Context, event Event) {
	n.deliver(event)
	n.broadcast(ctx, event)
}

func (n *Notifier) deliver(event Event) {
	n.mu.Lock()
	fns := make([]Listener, 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (n *Notifier) broadcast(ctx context.Context, event Event) {
	if n.client == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := n.client.Publish(ctx, n.channel, string(payload)).Err(); err != nil {
		n.log.Warn().Err(err).Msg("session event broadcast failed")
	}
}

package tokenstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures so callers can
// distinguish them from an absent pair.
var ErrRedisUnavailable = errors.New("token store backend unavailable")

// clearScript deletes both token keys and publishes the clear event in one
// atomic step, so no context can observe the keys gone without the event
// eventually following.
const clearScript = `
redis.call("DEL", KEYS[1])
redis.call("DEL", KEYS[2])
redis.call("PUBLISH", ARGV[1], ARGV[2])
return 1
`

var clearLua = redis.NewScript(clearScript)

// Redis is a Store backed by a shared Redis instance, the origin-scoped
// storage shared by every execution context of the app. It implements
// [Watcher] via pub/sub on the schema's event channel.
type Redis struct {
	client  *redis.Client
	schema  Schema
	origin  string
	channel string
}

// NewRedis creates a Redis-backed store. origin identifies this execution
// context in emitted events.
func NewRedis(client *redis.Client, schema Schema, origin string) *Redis {
	schema = schema.Normalize()
	return &Redis{
		client:  client,
		schema:  schema,
		origin:  origin,
		channel: schema.EventChannel(),
	}
}

// Put writes both keys, then publishes the put event. The two SETs ride one
// pipeline; the event is best-effort.
func (r *Redis) Put(ctx context.Context, pair Pair) error {
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.schema.AccessKey(), pair.AccessToken, 0)
	pipe.Set(ctx, r.schema.RefreshKey(), pair.RefreshToken, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	r.publish(ctx, Event{Op: OpPut, Origin: r.origin})
	return nil
}

// Get reads both keys. Presence is defined by the access-token key alone; the
// refresh slot may legitimately be empty.
func (r *Redis) Get(ctx context.Context) (Pair, bool, error) {
	vals, err := r.client.MGet(ctx, r.schema.AccessKey(), r.schema.RefreshKey()).Result()
	if err != nil {
		return Pair{}, false, errors.Join(ErrRedisUnavailable, err)
	}

	var pair Pair
	if s, ok := vals[0].(string); ok {
		pair.AccessToken = s
	}
	if s, ok := vals[1].(string); ok {
		pair.RefreshToken = s
	}
	if pair.AccessToken == "" {
		return Pair{}, false, nil
	}
	return pair, true, nil
}

// Clear removes both keys and publishes the clear event atomically. Clearing
// an already-empty store republishes the event; delivery is at-least-once.
func (r *Redis) Clear(ctx context.Context) error {
	payload, err := json.Marshal(Event{Op: OpClear, Origin: r.origin})
	if err != nil {
		return err
	}
	err = clearLua.Run(ctx, r.client,
		[]string{r.schema.AccessKey(), r.schema.RefreshKey()},
		r.channel, string(payload),
	).Err()
	if err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Watch subscribes to the store's event channel. The channel closes when ctx
// is done. Malformed payloads are skipped.
func (r *Redis) Watch(ctx context.Context) (<-chan Event, error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.Join(ErrRedisUnavailable, err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (r *Redis) publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = r.client.Publish(ctx, r.channel, string(payload)).Err()
}

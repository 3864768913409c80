package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDeliveryIsSynchronous(t *testing.T) {
	n := New("tab-a", "events", nil, zerolog.Nop())

	var got []Event
	cancel := n.Subscribe(func(event Event) { got = append(got, event) })
	defer cancel()

	n.SessionChanged(context.Background(), &User{ID: 1, Role: "referee"})
	n.Logout(context.Background())

	// No waiting: delivery happened on this goroutine.
	require.Len(t, got, 2)
	assert.Equal(t, KindSessionChanged, got[0].Kind)
	require.NotNil(t, got[0].User)
	assert.Equal(t, int64(1), got[0].User.ID)
	assert.Equal(t, KindLogout, got[1].Kind)
	assert.Nil(t, got[1].User)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	n := New("tab-a", "events", nil, zerolog.Nop())

	count := 0
	cancel := n.Subscribe(func(Event) { count++ })
	n.Logout(context.Background())
	cancel()
	n.Logout(context.Background())

	assert.Equal(t, 1, count)
}

func TestCrossContextDeliveryFiltersOwnOrigin(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdbA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rdbB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdbA.Close(); _ = rdbB.Close() })

	tabA := New("tab-a", "events", rdbA, zerolog.Nop())
	tabB := New("tab-b", "events", rdbB, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = tabA.Run(ctx) }()
	go func() { _ = tabB.Run(ctx) }()

	gotA := make(chan Event, 4)
	gotB := make(chan Event, 4)
	tabA.Subscribe(func(event Event) { gotA <- event })
	tabB.Subscribe(func(event Event) { gotB <- event })

	// Give both Run loops time to subscribe before publishing.
	time.Sleep(100 * time.Millisecond)

	tabA.Logout(ctx)

	select {
	case event := <-gotB:
		assert.Equal(t, KindLogout, event.Kind)
		assert.Equal(t, "tab-a", event.Origin)
	case <-time.After(2 * time.Second):
		t.Fatal("tab-b never observed tab-a's logout")
	}

	// tab-a hears itself exactly once (the synchronous local delivery),
	// never a second time via its own broadcast.
	<-gotA
	select {
	case event := <-gotA:
		t.Fatalf("tab-a replayed its own broadcast: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

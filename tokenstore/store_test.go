package tokenstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryPutGetClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemory("tab-a")

	if _, ok, err := store.Get(ctx); err != nil || ok {
		t.Fatalf("empty store Get = ok %v err %v", ok, err)
	}

	pair := Pair{AccessToken: "T1", RefreshToken: "R1"}
	if err := store.Put(ctx, pair); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok %v err %v", ok, err)
	}
	if got != pair {
		t.Fatalf("Get = %+v, want %+v", got, pair)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx); ok {
		t.Fatal("pair still present after Clear")
	}

	// Clear on an empty store must stay silent about absence.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("idempotent Clear: %v", err)
	}
}

func TestMemoryWatchObservesClear(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemory("tab-a")
	events, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := store.Put(ctx, Pair{AccessToken: "T1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	want := []Op{OpPut, OpClear}
	for i, op := range want {
		select {
		case event := <-events:
			if event.Op != op {
				t.Fatalf("event %d = %q, want %q", i, event.Op, op)
			}
			if event.Origin != "tab-a" {
				t.Fatalf("event origin = %q", event.Origin)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestSchemaKeys(t *testing.T) {
	s := DefaultSchema()
	if s.AccessKey() != "5t:auth_token" {
		t.Fatalf("AccessKey = %q", s.AccessKey())
	}
	if s.RefreshKey() != "5t:refresh_token" {
		t.Fatalf("RefreshKey = %q", s.RefreshKey())
	}
	if s.EventChannel() != "5t:storage" {
		t.Fatalf("EventChannel = %q", s.EventChannel())
	}

	bare := Schema{}.Normalize()
	if bare.AccessKey() != "auth_token" {
		t.Fatalf("unprefixed AccessKey = %q", bare.AccessKey())
	}
}

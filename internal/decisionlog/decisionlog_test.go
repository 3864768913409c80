package decisionlog

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing(3)
	for _, path := range []string{"a", "b", "c", "d"} {
		r.Record(Event{Path: path})
	}

	recent := r.Recent()
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	for i, want := range []string{"b", "c", "d"} {
		if recent[i].Path != want {
			t.Fatalf("recent[%d] = %q, want %q", i, recent[i].Path, want)
		}
	}
}

func TestRingNilSafe(t *testing.T) {
	var r *Ring
	r.Record(Event{Path: "x"})
	if got := r.Recent(); got != nil {
		t.Fatalf("nil ring Recent = %v", got)
	}
	if NewRing(0) != nil {
		t.Fatal("NewRing(0) should be nil")
	}
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8, DropIfFull: true}, sink)

	d.Emit(context.Background(), Event{Path: "/pages/referee/dashboard.html", Allowed: true})
	d.Close()

	select {
	case event := <-sink.Events():
		if event.Path != "/pages/referee/dashboard.html" {
			t.Fatalf("event path = %q", event.Path)
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}

	// Emits after Close are discarded, not panics.
	d.Emit(context.Background(), Event{Path: "late"})
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, nil)
	if d != nil {
		t.Fatal("disabled dispatcher should be nil")
	}
	d.Emit(context.Background(), Event{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher dropped count")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Event{Path: "/home.html", Trigger: "initial", Allowed: true})

	line := buf.String()
	if !strings.Contains(line, `"path":"/home.html"`) || !strings.HasSuffix(line, "\n") {
		t.Fatalf("unexpected sink output: %q", line)
	}
}

package decisionlog

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Event is one recorded guard decision.
type Event struct {
	Time         time.Time `json:"time"`
	Path         string    `json:"path"`
	Trigger      string    `json:"trigger"`
	Allowed      bool      `json:"allowed"`
	Reason       string    `json:"reason,omitempty"`
	RequiredRole string    `json:"required_role,omitempty"`
	ActualRole   string    `json:"actual_role,omitempty"`
	RedirectTo   string    `json:"redirect_to,omitempty"`
}

// Sink receives events from the dispatcher.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink silently discards all events.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink buffers events on a channel for consumer-driven draining.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a ChannelSink with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Emit enqueues the event, dropping it if the buffer is full.
func (s *ChannelSink) Emit(_ context.Context, event Event) {
	select {
	case s.ch <- event:
	default:
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// JSONWriterSink writes JSON-encoded events, one per line.
type JSONWriterSink struct {
	w io.Writer
}

// NewJSONWriterSink creates a JSONWriterSink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{w: w}
}

// Emit writes the event as one JSON line. Encoding failures are dropped.
func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = s.w.Write(data)
}

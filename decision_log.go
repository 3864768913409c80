package goSession

import (
	"io"

	"github.com/FiveTrackr/goSession/internal/decisionlog"
)

// DecisionEvent is a structured guard decision record emitted by the
// Manager's decision dispatcher.
type DecisionEvent = decisionlog.Event

// DecisionSink receives [DecisionEvent] values from the decision dispatcher.
type DecisionSink = decisionlog.Sink

// NoOpSink is a [DecisionSink] that silently discards all events.
type NoOpSink = decisionlog.NoOpSink

// ChannelSink is a buffered channel-based [DecisionSink].
type ChannelSink = decisionlog.ChannelSink

// JSONWriterSink is a [DecisionSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = decisionlog.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return decisionlog.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return decisionlog.NewJSONWriterSink(w)
}

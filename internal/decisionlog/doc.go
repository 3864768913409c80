// Package decisionlog records route-guard decisions for diagnostics: a
// bounded in-memory ring of recent decisions plus an asynchronous dispatcher
// that forwards events to a pluggable sink. Neither is load-bearing for
// correctness; dropping events under backpressure is acceptable and counted.
package decisionlog

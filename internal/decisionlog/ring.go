package decisionlog

import "sync"

// Ring is a bounded buffer of the most recent decisions. A nil Ring is valid
// and inert.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	total int
}

// NewRing creates a ring keeping the last size decisions. size <= 0 returns
// nil.
func NewRing(size int) *Ring {
	if size <= 0 {
		return nil
	}
	return &Ring{buf: make([]Event, size)}
}

// Record appends a decision, evicting the oldest when full.
func (r *Ring) Record(event Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = event
	r.next = (r.next + 1) % len(r.buf)
	r.total++
	r.mu.Unlock()
}

// Recent returns the retained decisions, oldest first.
func (r *Ring) Recent() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.total
	if n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]Event, 0, n)
	start := r.next - n
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

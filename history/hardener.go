package history

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/FiveTrackr/goSession/routeguard"
)

// Entry is the state pinned onto a protected history position. It marks the
// entry as access-checked so a later traversal back onto it is recognizable.
type Entry struct {
	Page         string    `json:"page"`
	SessionValid bool      `json:"session_valid"`
	Timestamp    time.Time `json:"timestamp"`
	Secure       bool      `json:"secure"`
}

// Navigator abstracts the host's history and location controls.
type Navigator interface {
	// ReplaceState swaps the current history entry in place.
	ReplaceState(entry Entry, path string)
	// PushState appends a new history entry.
	PushState(entry Entry, path string)
	// Redirect leaves the current page for path.
	Redirect(path string)
}

// PageCache abstracts whatever page-level cache the host keeps for rendered
// protected content.
type PageCache interface {
	Clear()
}

// DecideFunc classifies a path and authorizes the current session against it.
type DecideFunc func(path string) routeguard.Decision

// Hardener pins protected pages into history and neutralizes traversals that
// would resurface them without a valid session.
type Hardener struct {
	nav    Navigator
	cache  PageCache
	decide DecideFunc
	log    zerolog.Logger
	now    func() time.Time

	neutralized uint64
}

// New builds a Hardener. cache may be nil when the host keeps no page cache.
func New(nav Navigator, cache PageCache, decide DecideFunc, log zerolog.Logger) *Hardener {
	return &Hardener{
		nav:    nav,
		cache:  cache,
		decide: decide,
		log:    log,
		now:    time.Now,
	}
}

// Arm pins path's history entry after a page load. Protected pages are
// replaced in place, never pushed, so the stack does not accumulate protected
// entries. A denied session is redirected immediately and nothing is pinned.
func (h *Hardener) Arm(path string) routeguard.Decision {
	decision := h.decide(path)
	if !decision.Allowed {
		h.log.Info().
			Str("path", path).
			Str("reason", decision.Reason.String()).
			Msg("blocked protected page load")
		h.nav.Redirect(decision.RedirectTo)
		return decision
	}
	if decision.RequiredRole != "" {
		h.nav.ReplaceState(h.entry(path), path)
	}
	return decision
}

// OnPop handles a history traversal that landed on path. A protected landing
// is first re-pinned by pushing the entry back, so the traversal cannot walk
// further into the protected area, then access is re-checked and a denied
// session is redirected out.
func (h *Hardener) OnPop(path string) routeguard.Decision {
	decision := h.decide(path)
	if decision.RequiredRole == "" {
		return decision
	}

	h.nav.PushState(h.entry(path), path)
	h.neutralized++

	if !decision.Allowed {
		h.log.Info().
			Str("path", path).
			Str("reason", decision.Reason.String()).
			Msg("neutralized history traversal onto protected page")
		h.nav.Redirect(decision.RedirectTo)
	}
	return decision
}

// OnVisible re-checks access when the context becomes visible again. The
// session may have ended elsewhere while this context was hidden.
func (h *Hardener) OnVisible(path string) routeguard.Decision {
	return h.recheck(path, "visible")
}

// OnFocus re-checks access when the context regains focus.
func (h *Hardener) OnFocus(path string) routeguard.Decision {
	return h.recheck(path, "focus")
}

// OnInterval re-checks access on the periodic guard cadence.
func (h *Hardener) OnInterval(path string) routeguard.Decision {
	return h.recheck(path, "interval")
}

// OnBeforeUnload purges the page cache when leaving a protected page without
// a session entitled to it, so cached protected content cannot be restored
// into an unauthenticated context.
func (h *Hardener) OnBeforeUnload(path string) {
	if h.cache == nil {
		return
	}
	decision := h.decide(path)
	if decision.RequiredRole != "" && !decision.Allowed {
		h.cache.Clear()
	}
}

// Neutralized reports how many protected traversals OnPop has re-pinned.
func (h *Hardener) Neutralized() uint64 {
	return h.neutralized
}

func (h *Hardener) recheck(path, trigger string) routeguard.Decision {
	decision := h.decide(path)
	if decision.RequiredRole == "" || decision.Allowed {
		return decision
	}
	h.log.Info().
		Str("path", path).
		Str("trigger", trigger).
		Str("reason", decision.Reason.String()).
		Msg("revoked access on context wake")
	h.nav.Redirect(decision.RedirectTo)
	return decision
}

func (h *Hardener) entry(path string) Entry {
	return Entry{
		Page:         path,
		SessionValid: true,
		Timestamp:    h.now(),
		Secure:       true,
	}
}

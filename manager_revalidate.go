package goSession

import (
	"context"
	"time"

	"github.com/FiveTrackr/goSession/internal/flows"
	"github.com/FiveTrackr/goSession/notify"
	"github.com/FiveTrackr/goSession/tokenstore"
)

// StartRevalidation describes the startrevalidation operation and its observable behavior.
//
// StartRevalidation does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) StartRevalidation(ctx context.Context) {
	if m == nil {
		return
	}

	m.sched = newScheduler(
		m.config.Guard.RecheckInterval,
		m.config.Session.ValidateInterval,
		m.onRecheckTick,
		m.validateOnce,
	)
	go m.sched.run(ctx)

	if watcher, ok := m.store.(tokenstore.Watcher); ok {
		go m.watchStore(ctx, watcher)
	}

	if m.notifier != nil {
		go func() { _ = m.notifier.Run(ctx) }()
		m.notifier.Subscribe(func(event notify.Event) {
			if event.Origin == m.origin || event.Kind != notify.KindLogout {
				return
			}
			if m.State() == StateUnauthenticated {
				return
			}
			m.metrics.Inc(MetricCrossContextLogout)
			m.generation.Add(1)
			m.log.Info().Str("origin", event.Origin).Msg("logout broadcast from another context")
			m.applyTeardown()
		})
	}
}

// Revalidate describes the revalidate operation and its observable behavior.
//
// Revalidate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Revalidate(ctx context.Context) {
	if m == nil {
		return
	}
	m.validateOnce(ctx)
}

// validateOnce runs one validation pass. At most one pass is in flight at a
// time; an overlapping request is skipped, not queued. A resolution that
// lands after the session generation moved on is discarded outright.
func (m *Manager) validateOnce(ctx context.Context) {
	if !m.inFlight.CompareAndSwap(0, 1) {
		m.metrics.Inc(MetricValidateSkipped)
		return
	}
	defer m.inFlight.Store(0)

	gen := m.generation.Load()
	start := time.Now()
	res := m.service.Validate(ctx)
	m.metrics.Observe(MetricValidateLatency, time.Since(start))

	if m.generation.Load() != gen {
		m.metrics.Inc(MetricValidateDiscarded)
		return
	}

	switch res.Outcome {
	case flows.ValidateActive:
		m.metrics.Inc(MetricValidateActive)
		m.netFailures.Store(0)
		m.installSession(ctx, res.User, "", false)
	case flows.ValidateInvalid:
		m.metrics.Inc(MetricValidateInvalid)
		m.netFailures.Store(0)
		m.log.Info().Msg("authority invalidated the session")
		m.applyTeardown()
		if m.notifier != nil {
			m.notifier.Logout(ctx)
		}
	case flows.ValidateNoToken:
		if m.State() != StateUnauthenticated {
			m.applyTeardown()
		}
	case flows.ValidateNetwork:
		m.metrics.Inc(MetricValidateNetworkError)
		failures := m.netFailures.Add(1)
		if m.config.Session.FailClosed && int(failures) >= m.config.Session.FailClosedThreshold {
			// Access is withdrawn but the pair stays stored; a recovered
			// authority can still confirm the session on a later pass.
			m.log.Warn().Int32("failures", failures).Msg("fail-closed threshold reached, withdrawing access")
			m.applyTeardown()
		} else {
			m.log.Warn().Err(res.Err).Msg("validation inconclusive, retaining session")
		}
	case flows.ValidateError:
		m.log.Error().Err(res.Err).Msg("validation pass failed")
	}
}

// onRecheckTick re-authorizes the current page on the guard cadence. Only
// denials are recorded; an allow every tick would drown the decision log.
func (m *Manager) onRecheckTick(context.Context) {
	path := m.path()
	if path == "" {
		return
	}
	decision := m.hardener.OnInterval(path)
	if !decision.Allowed {
		m.recordDecision(path, "recheck", decision)
	}
}

// watchStore converges this context with token writes made elsewhere. A
// foreign clear is a logout; a foreign put marks the snapshot stale and
// forces an immediate revalidation so the last write wins everywhere.
func (m *Manager) watchStore(ctx context.Context, watcher tokenstore.Watcher) {
	ch, err := watcher.Watch(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("store watch unavailable")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if event.Origin == m.origin {
				continue
			}

			switch event.Op {
			case tokenstore.OpClear:
				if m.State() == StateUnauthenticated {
					continue
				}
				m.metrics.Inc(MetricCrossContextLogout)
				m.generation.Add(1)
				m.log.Info().Str("origin", event.Origin).Msg("logout observed from another context")
				m.applyTeardown()
			case tokenstore.OpPut:
				m.metrics.Inc(MetricStoreDivergence)
				m.markStale()
				if m.sched != nil {
					m.sched.Wake()
				}
			}
		}
	}
}

func (m *Manager) markStale() {
	m.mu.Lock()
	m.stale = true
	m.mu.Unlock()
	m.emitSnapshot()
}

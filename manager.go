package goSession

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/FiveTrackr/goSession/authclient"
	"github.com/FiveTrackr/goSession/history"
	"github.com/FiveTrackr/goSession/internal/decisionlog"
	"github.com/FiveTrackr/goSession/internal/flows"
	"github.com/FiveTrackr/goSession/notify"
	"github.com/FiveTrackr/goSession/routeguard"
	"github.com/FiveTrackr/goSession/tokenstore"
)

// Manager defines a public type used by goSession APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config    Config
	origin    string
	store     tokenstore.Store
	auth      AuthClient
	guard     *routeguard.Guard
	hardener  *history.Hardener
	notifier  *notify.Notifier
	decisions *decisionlog.Dispatcher
	recent    *decisionlog.Ring
	metrics   *Metrics
	service   flows.Service
	log       zerolog.Logger

	mu            sync.RWMutex
	state         State
	user          *User
	lastValidated time.Time
	expiresAt     time.Time
	stale         bool
	currentPath   string

	listeners    map[int]func(Snapshot)
	nextListener int

	inFlight    atomic.Int32
	generation  atomic.Uint64
	netFailures atomic.Int32

	sched     *scheduler
	closeOnce sync.Once
}

type noopNavigator struct{}

func (noopNavigator) ReplaceState(history.Entry, string) {}
func (noopNavigator) PushState(history.Entry, string)    {}
func (noopNavigator) Redirect(string)                    {}

func isNetworkErr(err error) bool {
	return errors.Is(err, authclient.ErrNetwork) || errors.Is(err, tokenstore.ErrRedisUnavailable)
}

func (m *Manager) flowDeps() flows.Deps {
	readPair := func(ctx context.Context) (string, bool, error) {
		pair, ok, err := m.store.Get(ctx)
		return pair.AccessToken, ok, err
	}
	clearPair := func(ctx context.Context) error {
		return m.store.Clear(ctx)
	}

	deps := flows.Deps{
		Login: flows.LoginDeps{
			Authenticate: func(ctx context.Context, email, password string) (*flows.LoginPayload, error) {
				res, err := m.auth.Login(ctx, authclient.Credentials{Email: email, Password: password})
				if err != nil {
					return nil, err
				}
				return &flows.LoginPayload{
					AccessToken:  res.AccessToken,
					RefreshToken: res.RefreshToken,
					ExpiresIn:    res.ExpiresIn,
					User: flows.UserRecord{
						ID:          res.User.ID,
						Email:       res.User.Email,
						DisplayName: res.User.DisplayName,
						Role:        res.User.Role,
					},
				}, nil
			},
			WritePair: func(ctx context.Context, access, refresh string) error {
				return m.store.Put(ctx, tokenstore.Pair{AccessToken: access, RefreshToken: refresh})
			},
			IsInvalidCredentials: func(err error) bool {
				return errors.Is(err, authclient.ErrInvalidCredentials)
			},
			IsNetworkErr: isNetworkErr,
		},
		Logout: flows.LogoutDeps{
			ReadPair:     readPair,
			RemoteLogout: m.auth.Logout,
			ClearPair:    clearPair,
		},
		Validate: flows.ValidateDeps{
			ReadPair: readPair,
			Check: func(ctx context.Context, access string) (*flows.SessionProbe, error) {
				check, err := m.auth.ActiveSession(ctx, access)
				if err != nil {
					return nil, err
				}
				probe := &flows.SessionProbe{Active: check.Active}
				if check.User != nil {
					probe.User = &flows.UserRecord{
						ID:          check.User.ID,
						Email:       check.User.Email,
						DisplayName: check.User.DisplayName,
						Role:        check.User.Role,
					}
				}
				return probe, nil
			},
			ClearPair:    clearPair,
			IsNetworkErr: isNetworkErr,
		},
	}

	if m.config.Session.PreflightExpiryCheck {
		deps.Validate.ExpiredLocally = func(access string) bool {
			return expiredLocally(access, time.Now())
		}
	}

	return deps
}

// Initialize describes the initialize operation and its observable behavior.
//
// Initialize may return an error when input validation, dependency calls, or security checks fail.
// Initialize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Initialize(ctx context.Context) error {
	if m == nil {
		return ErrManagerNotReady
	}

	res := m.service.Validate(ctx)
	switch res.Outcome {
	case flows.ValidateActive:
		m.installSession(ctx, res.User, "", false)
		m.log.Info().Int64("user_id", res.User.ID).Msg("session restored from store")
	case flows.ValidateNetwork:
		// Tokens survive an unreachable authority at boot. The snapshot is
		// held in Validating until the next pass gets a definitive answer.
		m.setBootPending()
		m.log.Warn().Err(res.Err).Msg("authority unreachable at boot, keeping stored tokens")
	case flows.ValidateNoToken, flows.ValidateInvalid:
		m.applyTeardown()
	case flows.ValidateError:
		m.applyTeardown()
		return res.Err
	}
	return nil
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	res := m.service.Login(ctx, email, password)
	switch res.Failure {
	case flows.LoginFailureInvalidCredentials:
		m.metrics.Inc(MetricLoginRejected)
		return nil, joinSentinel(ErrInvalidCredentials, res.Err)
	case flows.LoginFailureNetwork:
		m.metrics.Inc(MetricLoginNetworkError)
		return nil, joinSentinel(ErrNetworkUnavailable, res.Err)
	case flows.LoginFailureServer:
		m.metrics.Inc(MetricLoginServerError)
		return nil, joinSentinel(ErrServerFailure, res.Err)
	case flows.LoginFailureStore:
		m.metrics.Inc(MetricLoginServerError)
		return nil, joinSentinel(ErrStoreUnavailable, res.Err)
	}

	m.metrics.Inc(MetricLoginSuccess)
	m.generation.Add(1)
	m.netFailures.Store(0)

	user := m.installSession(ctx, &res.Payload.User, res.Payload.AccessToken, true)
	m.log.Info().
		Int64("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("login succeeded")

	if res.Payload.ExpiresIn > 0 {
		m.mu.Lock()
		if m.expiresAt.IsZero() {
			m.expiresAt = time.Now().Add(time.Duration(res.Payload.ExpiresIn) * time.Second)
		}
		m.mu.Unlock()
	}

	return user, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Logout(ctx context.Context) error {
	if m == nil {
		return ErrManagerNotReady
	}

	m.generation.Add(1)
	res := m.service.Logout(ctx)
	if res.RemoteErr != nil {
		m.metrics.Inc(MetricLogoutRemoteError)
		m.log.Warn().Err(res.RemoteErr).Msg("remote logout failed, local teardown proceeds")
	}

	m.metrics.Inc(MetricLogout)
	m.applyTeardown()
	if m.notifier != nil {
		m.notifier.Logout(ctx)
	}

	if res.ClearErr != nil {
		return joinSentinel(ErrStoreUnavailable, res.ClearErr)
	}
	return nil
}

// Visit describes the visit operation and its observable behavior.
//
// Visit may return an error when input validation, dependency calls, or security checks fail.
// Visit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Visit(path string) routeguard.Decision {
	if m == nil {
		return routeguard.Decision{Allowed: true}
	}

	m.mu.Lock()
	m.currentPath = path
	m.mu.Unlock()

	decision := m.hardener.Arm(path)
	m.recordDecision(path, "visit", decision)
	return decision
}

// Authorize describes the authorize operation and its observable behavior.
//
// Authorize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Authorize(path string) routeguard.Decision {
	snap := m.Current()
	var role routeguard.Role
	if snap.User != nil {
		role = snap.User.Role
	}
	return m.guard.Authorize(path, role, snap.Authenticated())
}

// OnHistoryPop describes the onhistorypop operation and its observable behavior.
//
// OnHistoryPop does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) OnHistoryPop(path string) routeguard.Decision {
	if m == nil {
		return routeguard.Decision{Allowed: true}
	}

	m.mu.Lock()
	m.currentPath = path
	m.mu.Unlock()

	before := m.hardener.Neutralized()
	decision := m.hardener.OnPop(path)
	if m.hardener.Neutralized() > before {
		m.metrics.Inc(MetricPopNeutralized)
	}
	m.recordDecision(path, "pop", decision)
	return decision
}

// OnVisible describes the onvisible operation and its observable behavior.
//
// OnVisible does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) OnVisible() routeguard.Decision {
	return m.wakeRecheck("visible")
}

// OnFocus describes the onfocus operation and its observable behavior.
//
// OnFocus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) OnFocus() routeguard.Decision {
	return m.wakeRecheck("focus")
}

// OnBeforeUnload describes the onbeforeunload operation and its observable behavior.
//
// OnBeforeUnload does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) OnBeforeUnload() {
	if m == nil {
		return
	}
	if path := m.path(); path != "" {
		m.hardener.OnBeforeUnload(path)
	}
}

func (m *Manager) wakeRecheck(trigger string) routeguard.Decision {
	if m == nil {
		return routeguard.Decision{Allowed: true}
	}
	path := m.path()
	if path == "" {
		return routeguard.Decision{Allowed: true}
	}

	var decision routeguard.Decision
	switch trigger {
	case "focus":
		decision = m.hardener.OnFocus(path)
	default:
		decision = m.hardener.OnVisible(path)
	}
	m.recordDecision(path, trigger, decision)
	return decision
}

// Current describes the current operation and its observable behavior.
//
// Current does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Current() Snapshot {
	if m == nil {
		return Snapshot{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		State:           m.state,
		LastValidatedAt: m.lastValidated,
		TokenExpiresAt:  m.expiresAt,
		Stale:           m.stale,
	}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// State describes the state operation and its observable behavior.
//
// State does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) State() State {
	if m == nil {
		return StateUnauthenticated
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnChange describes the onchange operation and its observable behavior.
//
// OnChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) OnChange(fn func(Snapshot)) func() {
	if m == nil || fn == nil {
		return func() {}
	}

	m.mu.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// RecentDecisions describes the recentdecisions operation and its observable behavior.
//
// RecentDecisions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) RecentDecisions() []DecisionEvent {
	if m == nil {
		return nil
	}
	return m.recent.Recent()
}

// DecisionsDropped describes the decisionsdropped operation and its observable behavior.
//
// DecisionsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) DecisionsDropped() uint64 {
	if m == nil {
		return 0
	}
	return m.decisions.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// Metrics describes the metrics operation and its observable behavior.
//
// Metrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Metrics() *Metrics {
	if m == nil {
		return nil
	}
	return m.metrics
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.closeOnce.Do(func() {
		m.decisions.Close()
	})
}

func (m *Manager) path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentPath
}

// installSession applies a confirmed user record, stamps validation time and
// token expiry, and announces the change. access may be empty when the token
// was already stored (boot restore reads expiry from the store).
func (m *Manager) installSession(ctx context.Context, rec *flows.UserRecord, access string, announce bool) *User {
	user := &User{
		ID:          rec.ID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		Role:        routeguard.Role(rec.Role),
	}

	var expiry time.Time
	if access == "" {
		if pair, ok, err := m.store.Get(ctx); err == nil && ok {
			access = pair.AccessToken
		}
	}
	if access != "" {
		if exp, ok := tokenExpiry(access); ok {
			expiry = exp
		}
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = user
	m.lastValidated = time.Now()
	m.expiresAt = expiry
	m.stale = false
	m.mu.Unlock()

	m.emitSnapshot()

	if announce && m.notifier != nil {
		m.notifier.SessionChanged(ctx, &notify.User{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(user.Role),
		})
	}

	u := *user
	return &u
}

// setBootPending keeps the snapshot in Validating when the authority could
// not be reached at boot while a stored pair exists.
func (m *Manager) setBootPending() {
	m.mu.Lock()
	m.state = StateValidating
	m.user = nil
	m.stale = true
	m.mu.Unlock()
	m.emitSnapshot()
}

// applyTeardown drops the local session view. It never touches the store;
// callers clear the pair through the flows so clearing stays atomic with the
// verdict that caused it.
func (m *Manager) applyTeardown() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.user = nil
	m.lastValidated = time.Time{}
	m.expiresAt = time.Time{}
	m.stale = false
	m.mu.Unlock()
	m.emitSnapshot()
}

func (m *Manager) emitSnapshot() {
	snap := m.Current()

	m.mu.RLock()
	fns := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) recordDecision(path, trigger string, decision routeguard.Decision) {
	if decision.Allowed {
		m.metrics.Inc(MetricGuardAllow)
	} else {
		switch decision.Reason {
		case routeguard.DenyNotAuthenticated:
			m.metrics.Inc(MetricGuardDenyUnauthenticated)
		case routeguard.DenyRoleMismatch:
			m.metrics.Inc(MetricGuardDenyRoleMismatch)
		}
		m.metrics.Inc(MetricRedirectIssued)
	}

	if m.decisions == nil && m.recent == nil {
		return
	}

	event := decisionlog.Event{
		Time:         time.Now(),
		Path:         path,
		Trigger:      trigger,
		Allowed:      decision.Allowed,
		RequiredRole: string(decision.RequiredRole),
		ActualRole:   string(decision.ActualRole),
		RedirectTo:   decision.RedirectTo,
	}
	if !decision.Allowed {
		event.Reason = decision.Reason.String()
	}

	m.recent.Record(event)
	m.decisions.Emit(context.Background(), event)
}

func joinSentinel(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}

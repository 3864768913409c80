package goSession

import (
	"errors"
	"time"

	"github.com/FiveTrackr/goSession/routeguard"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session     SessionConfig
	Guard       GuardConfig
	Store       StoreConfig
	Notify      NotifyConfig
	DecisionLog DecisionLogConfig
	Metrics     MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goSession APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	ValidateInterval     time.Duration
	RequestTimeout       time.Duration
	PreflightExpiryCheck bool
	FailClosed           bool
	FailClosedThreshold  int
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig defines a public type used by goSession APIs.
//
// GuardConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardConfig struct {
	RecheckInterval time.Duration
	Rules           []routeguard.Rule
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines a public type used by goSession APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	RedisPrefix     string
	AccessTokenKey  string
	RefreshTokenKey string
}

// NotifyConfig defines a public type used by goSession APIs.
//
// NotifyConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NotifyConfig struct {
	Enabled bool
	Channel string
}

// DecisionLogConfig defines a public type used by goSession APIs.
//
// DecisionLogConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DecisionLogConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
	RingSize   int
}

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			ValidateInterval:     5 * time.Minute,
			RequestTimeout:       10 * time.Second,
			PreflightExpiryCheck: true,
			FailClosed:           false,
			FailClosedThreshold:  3,
		},
		Guard: GuardConfig{
			RecheckInterval: 30 * time.Second,
			Rules:           routeguard.DefaultRules(),
		},
		Store: StoreConfig{
			RedisPrefix:     "5t",
			AccessTokenKey:  "auth_token",
			RefreshTokenKey: "refresh_token",
		},
		Notify: NotifyConfig{
			Enabled: true,
			Channel: "session_events",
		},
		DecisionLog: DecisionLogConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
			RingSize:   64,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Guard.Rules) > 0 {
		out.Guard.Rules = make([]routeguard.Rule, len(cfg.Guard.Rules))
		copy(out.Guard.Rules, cfg.Guard.Rules)
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Session
	if c.Session.ValidateInterval <= 0 {
		return errors.New("Session ValidateInterval must be > 0")
	}
	if c.Session.RequestTimeout <= 0 {
		return errors.New("Session RequestTimeout must be > 0")
	}
	if c.Session.FailClosed && c.Session.FailClosedThreshold <= 0 {
		return errors.New("Session FailClosedThreshold must be > 0 when FailClosed is true")
	}

	// Guard
	if c.Guard.RecheckInterval <= 0 {
		return errors.New("Guard RecheckInterval must be > 0")
	}
	if c.Guard.RecheckInterval > c.Session.ValidateInterval {
		return errors.New("Guard RecheckInterval must be <= Session ValidateInterval")
	}
	for _, rule := range c.Guard.Rules {
		if rule.Prefix == "" {
			return errors.New("Guard rule Prefix must not be empty")
		}
		if !rule.Role.Valid() {
			return errors.New("Guard rule Role is not a known role")
		}
	}

	// Store
	if c.Store.AccessTokenKey == "" {
		return errors.New("Store AccessTokenKey must not be empty")
	}
	if c.Store.RefreshTokenKey == "" {
		return errors.New("Store RefreshTokenKey must not be empty")
	}
	if c.Store.AccessTokenKey == c.Store.RefreshTokenKey {
		return errors.New("Store token keys must differ")
	}

	// Notify
	if c.Notify.Enabled && c.Notify.Channel == "" {
		return errors.New("Notify Channel must not be empty when notify is enabled")
	}

	// Decision log
	if c.DecisionLog.Enabled {
		if c.DecisionLog.BufferSize <= 0 {
			return errors.New("DecisionLog BufferSize must be > 0 when decision log is enabled")
		}
		if c.DecisionLog.RingSize < 0 {
			return errors.New("DecisionLog RingSize must be >= 0")
		}
	}

	return nil
}

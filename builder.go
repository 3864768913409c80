package goSession

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/FiveTrackr/goSession/authclient"
	"github.com/FiveTrackr/goSession/history"
	"github.com/FiveTrackr/goSession/internal/decisionlog"
	"github.com/FiveTrackr/goSession/internal/flows"
	"github.com/FiveTrackr/goSession/notify"
	"github.com/FiveTrackr/goSession/routeguard"
	"github.com/FiveTrackr/goSession/tokenstore"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	store      tokenstore.Store
	auth       AuthClient
	baseURL    string
	httpClient *http.Client

	nav   history.Navigator
	cache history.PageCache

	origin string
	logger zerolog.Logger
	sink   DecisionSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(store tokenstore.Store) *Builder {
	b.store = store
	return b
}

// WithAuthClient describes the withauthclient operation and its observable behavior.
//
// WithAuthClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuthClient(client AuthClient) *Builder {
	b.auth = client
	return b
}

// WithAuthority describes the withauthority operation and its observable behavior.
//
// WithAuthority does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuthority(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
//
// WithNavigator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNavigator(nav history.Navigator) *Builder {
	b.nav = nav
	return b
}

// WithPageCache describes the withpagecache operation and its observable behavior.
//
// WithPageCache does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPageCache(cache history.PageCache) *Builder {
	b.cache = cache
	return b
}

// WithOrigin describes the withorigin operation and its observable behavior.
//
// WithOrigin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithOrigin(origin string) *Builder {
	b.origin = origin
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.logger = log
	return b
}

// WithDecisionSink describes the withdecisionsink operation and its observable behavior.
//
// WithDecisionSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDecisionSink(sink DecisionSink) *Builder {
	b.sink = sink
	b.config.DecisionLog.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	origin := b.origin
	if origin == "" {
		origin = uuid.NewString()
	}

	auth := b.auth
	if auth == nil {
		if b.baseURL == "" {
			return nil, errors.New("auth client or authority base URL required")
		}
		auth = authclient.New(b.baseURL, b.httpClient, cfg.Session.RequestTimeout, b.logger)
	}

	schema := tokenstore.Schema{
		Prefix:          cfg.Store.RedisPrefix,
		AccessTokenKey:  cfg.Store.AccessTokenKey,
		RefreshTokenKey: cfg.Store.RefreshTokenKey,
	}.Normalize()

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = tokenstore.NewRedis(b.redis, schema, origin)
		} else {
			store = tokenstore.NewMemory(origin)
		}
	}

	var notifier *notify.Notifier
	if cfg.Notify.Enabled {
		channel := cfg.Notify.Channel
		if schema.Prefix != "" {
			channel = schema.Prefix + ":" + channel
		}
		notifier = notify.New(origin, channel, b.redis, b.logger)
	}

	nav := b.nav
	if nav == nil {
		nav = noopNavigator{}
	}

	m := &Manager{
		config:    cfg,
		origin:    origin,
		store:     store,
		auth:      auth,
		guard:     routeguard.NewGuard(cfg.Guard.Rules),
		notifier:  notifier,
		decisions: decisionlog.NewDispatcher(cfg.DecisionLog.dispatcherConfig(), b.sink),
		recent:    decisionlog.NewRing(cfg.DecisionLog.ringSize()),
		metrics:   NewMetrics(cfg.Metrics),
		log:       b.logger,
		listeners: make(map[int]func(Snapshot)),
	}
	m.hardener = history.New(nav, b.cache, m.Authorize, b.logger)
	m.service = flows.New(m.flowDeps())

	b.built = true

	return m, nil
}

func (c DecisionLogConfig) dispatcherConfig() decisionlog.Config {
	return decisionlog.Config{
		Enabled:    c.Enabled,
		BufferSize: c.BufferSize,
		DropIfFull: c.DropIfFull,
	}
}

func (c DecisionLogConfig) ringSize() int {
	if !c.Enabled {
		return 0
	}
	return c.RingSize
}

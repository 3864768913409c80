package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goSession "github.com/FiveTrackr/goSession"
	"github.com/FiveTrackr/goSession/metrics/export/prometheus"
	"github.com/alicebob/miniredis/v2"
	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	var (
		authority   = flag.String("authority", "", "base URL of the session authority (required)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		email       = flag.String("email", "", "account email; if empty, only restores a stored session")
		password    = flag.String("password", "", "account password")
		validate    = flag.Duration("validate-interval", 30*time.Second, "remote validation cadence")
		recheck     = flag.Duration("recheck-interval", 5*time.Second, "local guard recheck cadence")
		metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
		path        = flag.String("path", "pages/league-manager/dashboard.html", "page to simulate visiting")
	)
	flag.Parse()

	if *authority == "" {
		fmt.Fprintln(os.Stderr, "authority is required")
		os.Exit(2)
	}

	banner := figure.NewFigure("goSession", "cybermedium", true)
	banner.Print()
	fmt.Println()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		logger.Info().Str("addr", addr).Msg("using miniredis")
	} else {
		cleanup = func() {}
		logger.Info().Str("addr", addr).Msg("using redis")
	}
	defer cleanup()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	cfg := goSession.DefaultConfig()
	cfg.Session.ValidateInterval = *validate
	cfg.Guard.RecheckInterval = *recheck
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	manager, err := goSession.New().
		WithConfig(cfg).
		WithAuthority(*authority).
		WithRedis(client).
		WithLogger(logger).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	manager.OnChange(func(s goSession.Snapshot) {
		logger.Info().
			Stringer("state", s.State).
			Bool("stale", s.Stale).
			Msg("session changed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Initialize(ctx); err != nil {
		logger.Warn().Err(err).Msg("no restorable session")
	}

	if *email != "" {
		user, err := manager.Login(ctx, *email, *password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
			os.Exit(1)
		}
		logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("logged in")
	}

	manager.StartRevalidation(ctx)
	manager.Visit(*path)

	if *metricsAddr != "" {
		exporter := prometheus.NewPrometheusExporter(manager)
		mux := http.NewServeMux()
		mux.Handle("/metrics", exporter.Handler())
		go func() {
			logger.Info().Str("addr", *metricsAddr).Msg("serving metrics")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	report := time.NewTicker(10 * time.Second)
	defer report.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-report.C:
			snap := manager.Current()
			decision := manager.Authorize(*path)
			logger.Info().
				Stringer("state", snap.State).
				Bool("allowed", decision.Allowed).
				Uint64("decisions_dropped", manager.DecisionsDropped()).
				Msg("probe status")
		case <-stop:
			logger.Info().Msg("shutting down")
			if err := manager.Logout(ctx); err != nil {
				logger.Warn().Err(err).Msg("logout failed")
			}
			return
		}
	}
}

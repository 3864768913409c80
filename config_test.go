package goSession

import (
	"testing"
	"time"

	"github.com/FiveTrackr/goSession/routeguard"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "zero validate interval",
			mutate: func(c *Config) { c.Session.ValidateInterval = 0 },
		},
		{
			name:   "zero request timeout",
			mutate: func(c *Config) { c.Session.RequestTimeout = 0 },
		},
		{
			name: "fail closed without threshold",
			mutate: func(c *Config) {
				c.Session.FailClosed = true
				c.Session.FailClosedThreshold = 0
			},
		},
		{
			name:   "zero recheck interval",
			mutate: func(c *Config) { c.Guard.RecheckInterval = 0 },
		},
		{
			name: "recheck slower than validate",
			mutate: func(c *Config) {
				c.Guard.RecheckInterval = 10 * time.Minute
			},
		},
		{
			name: "rule with empty prefix",
			mutate: func(c *Config) {
				c.Guard.Rules = append(c.Guard.Rules, routeguard.Rule{Role: routeguard.RoleAdmin})
			},
		},
		{
			name: "rule with unknown role",
			mutate: func(c *Config) {
				c.Guard.Rules = append(c.Guard.Rules, routeguard.Rule{Prefix: "/pages/x/", Role: "ghost"})
			},
		},
		{
			name:   "empty access token key",
			mutate: func(c *Config) { c.Store.AccessTokenKey = "" },
		},
		{
			name: "colliding token keys",
			mutate: func(c *Config) {
				c.Store.RefreshTokenKey = c.Store.AccessTokenKey
			},
		},
		{
			name: "notify without channel",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.Channel = ""
			},
		},
		{
			name: "decision log without buffer",
			mutate: func(c *Config) {
				c.DecisionLog.Enabled = true
				c.DecisionLog.BufferSize = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestCloneConfigDetachesRules(t *testing.T) {
	cfg := defaultConfig()
	out := cloneConfig(cfg)
	out.Guard.Rules[0].Prefix = "/mutated/"

	if cfg.Guard.Rules[0].Prefix == "/mutated/" {
		t.Fatal("clone shares the rule slice")
	}
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"slices"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		gracePeriod:    100 * time.Millisecond,
		maxMessageSize: 1024,
		port:           8080,
		sendBuffer:     8,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"cert only", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too big", func(c *Config) { c.port = 65536 }, true},
		{"no grace", func(c *Config) { c.gracePeriod = 0 }, true},
		{"negative timeout", func(c *Config) { c.sessionTimeout = -time.Second }, true},
		{"no message size", func(c *Config) { c.maxMessageSize = 0 }, true},
		{"no send buffer", func(c *Config) { c.sendBuffer = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			if err := cfg.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	if got := cfg.scheme(); got != "http" {
		t.Errorf("scheme() = %q, want http", got)
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Errorf("scheme() = %q, want https", got)
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("PARTYRELAY_PORT", "9090")
	t.Setenv("PARTYRELAY_GRACE_PERIOD", "250ms")
	t.Setenv("PARTYRELAY_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags([]string{"--session-timeout", "1h"}); err != nil {
		t.Fatal(err)
	}

	if cfg.port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.port)
	}
	if cfg.gracePeriod != 250*time.Millisecond {
		t.Errorf("grace period = %s", cfg.gracePeriod)
	}
	if cfg.sessionTimeout != time.Hour {
		t.Errorf("session timeout = %s", cfg.sessionTimeout)
	}
	if !slices.Equal(cfg.allowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("allowed origins = %v", cfg.allowedOrigins)
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := map[int64]string{
		0:           "0 B",
		1023:        "1023 B",
		1536:        "1.5 KiB",
		64 * 1024:   "64.0 KiB",
		1024 * 1024: "1.0 MiB",
	}

	for in, want := range tests {
		if got := humanReadableSize(in); got != want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}

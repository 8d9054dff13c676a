package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{Token: "secret"},
		Normalizer: NormalizerConfig{
			Enabled: true,
			BaseURL: "http://localhost:8090",
			Timeout: 10 * time.Second,
		},
		PlanStore: PlanStoreConfig{
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing server port", func(c *Config) { c.Server.Port = 0 }},
		{"missing auth token", func(c *Config) { c.Auth.Token = "" }},
		{"normalizer enabled without base url", func(c *Config) { c.Normalizer.BaseURL = "" }},
		{"normalizer enabled without timeout", func(c *Config) { c.Normalizer.Timeout = 0 }},
		{"invalid plan store max size", func(c *Config) { c.PlanStore.MaxSize = 0 }},
		{"invalid plan store ttl", func(c *Config) { c.PlanStore.TTL = 0 }},
		{"invalid plan store cleanup interval", func(c *Config) { c.PlanStore.CleanupInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateConfigNormalizerDisabledSkipsNormalizerChecks(t *testing.T) {
	cfg := validTestConfig()
	cfg.Normalizer = NormalizerConfig{Enabled: false}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("disabled normalizer must not require base url or timeout: %v", err)
	}
}

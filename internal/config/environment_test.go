package config

import (
	"testing"
	"time"
)

func TestApplyEnvironmentLocal(t *testing.T) {
	cfg := Default()
	cfg.Cache.StatisticsTTL = 5 * time.Minute

	if err := ApplyEnvironment(&cfg, "dev"); err != nil {
		t.Fatalf("ApplyEnvironment: %v", err)
	}
	if cfg.Environment != "local" {
		t.Fatalf("expected local environment, got %q", cfg.Environment)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
	if cfg.Cache.StatisticsTTL != 10*time.Second {
		t.Fatalf("expected statistics ttl clamped to 10s, got %v", cfg.Cache.StatisticsTTL)
	}
}

func TestApplyEnvironmentStagingClampsTimeout(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeout = time.Minute
	cfg.LogLevel = "debug"

	if err := ApplyEnvironment(&cfg, "staging"); err != nil {
		t.Fatalf("ApplyEnvironment: %v", err)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Fatalf("expected request timeout 20s, got %v", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %q", cfg.LogLevel)
	}
}

func TestApplyEnvironmentProductionRequiresHTTPS(t *testing.T) {
	cfg := Default()
	if err := ApplyEnvironment(&cfg, "production"); err == nil {
		t.Fatal("expected error for plain http base url in production")
	}

	cfg = Default()
	cfg.APIBaseURL = "https://api.optionslab.example/api"
	if err := ApplyEnvironment(&cfg, "PROD"); err != nil {
		t.Fatalf("ApplyEnvironment: %v", err)
	}
	if cfg.Environment != "production" {
		t.Fatalf("expected production, got %q", cfg.Environment)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("expected request timeout 10s, got %v", cfg.RequestTimeout)
	}
}

func TestApplyEnvironmentEmptyIsNoop(t *testing.T) {
	cfg := Default()
	before := cfg
	if err := ApplyEnvironment(&cfg, " "); err != nil {
		t.Fatalf("ApplyEnvironment: %v", err)
	}
	if cfg != before {
		t.Fatal("expected config unchanged for empty environment")
	}
}

func TestApplyEnvironmentUnknown(t *testing.T) {
	cfg := Default()
	if err := ApplyEnvironment(&cfg, "qa"); err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

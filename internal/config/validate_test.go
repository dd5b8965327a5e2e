package config

import (
	"testing"
	"time"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got: %v", err)
	}
}

func TestValidateBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:3000", "ftp://example.test/api", "://bad"} {
		cfg := Default()
		cfg.APIBaseURL = raw
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected %q to fail validation", raw)
		}
	}
}

func TestValidateTimeout(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero request_timeout to fail validation")
	}
}

func TestValidateEnvironment(t *testing.T) {
	cfg := Default()
	cfg.Environment = "qa"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown environment to fail validation")
	}
}

func TestValidateExperienceLevel(t *testing.T) {
	cfg := Default()
	cfg.ExperienceLevel = "guru"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown experience_level to fail validation")
	}

	cfg.ExperienceLevel = "expert"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected lower-case level to pass, got %v", err)
	}
}

func TestValidateCacheAndWatch(t *testing.T) {
	cfg := Default()
	cfg.Cache.StatisticsTTL = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative ttl to fail validation")
	}

	cfg = Default()
	cfg.Watch.Interval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero watch.interval to fail validation")
	}

	cfg = Default()
	cfg.Recent.Limit = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero recent.limit to fail validation")
	}
}

func TestValidateTelegramRequiresCredentials(t *testing.T) {
	cfg := Default()
	cfg.Telegram.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected telegram without credentials to fail validation")
	}
	cfg.Telegram.BotToken = "bot"
	cfg.Telegram.ChatID = "chat"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected telegram with credentials to pass, got %v", err)
	}
}

func TestValidateDashboardRefreshInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		cfg := Default()
		cfg.Dashboard.RefreshInterval = d
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected refresh_interval %v to fail validation", d)
		}
	}
}

func TestDefaultAppliesNoPreset(t *testing.T) {
	cfg := Default()
	if cfg.Environment != "" {
		t.Fatalf("expected no default environment, got %q", cfg.Environment)
	}
	before := cfg
	if err := ApplyEnvironment(&cfg, cfg.Environment); err != nil {
		t.Fatalf("ApplyEnvironment: %v", err)
	}
	if cfg != before {
		t.Fatalf("expected default config untouched, got %+v", cfg)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Default()
	if cfg.APIBaseURL == "" {
		t.Fatal("expected default api base url")
	}
	if cfg.RequestTimeout <= 0 {
		t.Fatal("expected positive request timeout")
	}
	if cfg.ExperienceLevel != "NOVICE" {
		t.Fatalf("expected NOVICE experience level by default, got %q", cfg.ExperienceLevel)
	}
	if cfg.Recent.Limit != 5 {
		t.Fatalf("expected recent limit 5 by default, got %d", cfg.Recent.Limit)
	}
	if cfg.Cache.AssetsTTL != 0 {
		t.Fatalf("expected session-scoped assets cache by default, got %v", cfg.Cache.AssetsTTL)
	}
	if cfg.Telegram.Enabled {
		t.Fatal("expected telegram disabled by default")
	}
}

func TestLoadFromYAML(t *testing.T) {
	yaml := `
api_base_url: https://api.optionslab.example/api
request_timeout: 7s
environment: staging
experience_level: ADVANCED
cache:
  statistics_ttl: 2m
  simulations_ttl: 45s
recent:
  limit: 8
dashboard:
  addr: ":9000"
watch:
  interval: 90s
telegram:
  enabled: true
  bot_token: bot
  chat_id: chat
`
	f, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write([]byte(yaml)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg, err := LoadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "https://api.optionslab.example/api" {
		t.Fatalf("unexpected api base url %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 7*time.Second {
		t.Fatalf("expected 7s request timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.ExperienceLevel != "ADVANCED" {
		t.Fatalf("expected ADVANCED, got %q", cfg.ExperienceLevel)
	}
	if cfg.Cache.StatisticsTTL != 2*time.Minute {
		t.Fatalf("expected statistics ttl 2m, got %v", cfg.Cache.StatisticsTTL)
	}
	if cfg.Cache.SimulationsTTL != 45*time.Second {
		t.Fatalf("expected simulations ttl 45s, got %v", cfg.Cache.SimulationsTTL)
	}
	if cfg.Cache.StrategiesTTL != 10*time.Minute {
		t.Fatalf("expected default strategies ttl to survive, got %v", cfg.Cache.StrategiesTTL)
	}
	if cfg.Recent.Limit != 8 {
		t.Fatalf("expected recent limit 8, got %d", cfg.Recent.Limit)
	}
	if cfg.Dashboard.Addr != ":9000" {
		t.Fatalf("expected dashboard addr :9000, got %q", cfg.Dashboard.Addr)
	}
	if cfg.Watch.Interval != 90*time.Second {
		t.Fatalf("expected watch interval 90s, got %v", cfg.Watch.Interval)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken != "bot" || cfg.Telegram.ChatID != "chat" {
		t.Fatalf("unexpected telegram config %+v", cfg.Telegram)
	}
}

func TestLoadFileInvalidPath(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	f, err := os.CreateTemp("", "bad-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write([]byte("{{invalid yaml")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = LoadFile(f.Name())
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestApplyEnvAllVars(t *testing.T) {
	t.Setenv("OPTIONSLAB_API_URL", "https://example.test/api")
	t.Setenv("OPTIONSLAB_REQUEST_TIMEOUT", "3s")
	t.Setenv("OPTIONSLAB_ENV", "Staging")
	t.Setenv("OPTIONSLAB_LOG_LEVEL", "DEBUG")
	t.Setenv("OPTIONSLAB_LOG_FILE", "/tmp/optionslab.log")
	t.Setenv("OPTIONSLAB_SESSION_FILE", "/tmp/session.yaml")
	t.Setenv("OPTIONSLAB_EXPERIENCE_LEVEL", "expert")
	t.Setenv("OPTIONSLAB_DASHBOARD_ADDR", ":7000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")
	t.Setenv("OPTIONSLAB_TELEGRAM_ENABLED", "1")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.APIBaseURL != "https://example.test/api" {
		t.Fatalf("expected api url from env, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("expected staging, got %s", cfg.Environment)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/optionslab.log" {
		t.Fatalf("unexpected log file %s", cfg.LogFile)
	}
	if cfg.SessionFile != "/tmp/session.yaml" {
		t.Fatalf("unexpected session file %s", cfg.SessionFile)
	}
	if cfg.ExperienceLevel != "EXPERT" {
		t.Fatalf("expected EXPERT, got %s", cfg.ExperienceLevel)
	}
	if cfg.Dashboard.Addr != ":7000" {
		t.Fatalf("expected :7000, got %s", cfg.Dashboard.Addr)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken != "token" || cfg.Telegram.ChatID != "chat" {
		t.Fatalf("unexpected telegram config %+v", cfg.Telegram)
	}
}

func TestApplyEnvBadTimeoutIgnored(t *testing.T) {
	t.Setenv("OPTIONSLAB_REQUEST_TIMEOUT", "soon")
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.RequestTimeout != Default().RequestTimeout {
		t.Fatalf("expected default timeout kept, got %v", cfg.RequestTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("OPTIONSLAB_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPTIONSLAB_DOTENV_PROBE", "")
	os.Unsetenv("OPTIONSLAB_DOTENV_PROBE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("OPTIONSLAB_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestLoadDotEnvNoFiles(t *testing.T) {
	if err := LoadDotEnv("/nonexistent/.env"); err != nil {
		t.Fatalf("expected missing files to be ignored, got %v", err)
	}
}

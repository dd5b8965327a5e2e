package config

import (
	"fmt"
	"strings"
	"time"
)

// ApplyEnvironment applies a deployment preset to the config.
// Supported environments:
// - local:      verbose logging, short cache lifetimes
// - staging:    info logging, timeouts capped at 20s
// - production: info logging, https required, timeouts capped at 10s
func ApplyEnvironment(cfg *Config, env string) error {
	e := strings.ToLower(strings.TrimSpace(env))
	if e == "" {
		return nil
	}

	switch e {
	case "local", "dev", "development":
		cfg.Environment = "local"
		cfg.LogLevel = "debug"
		clampMaxDuration(&cfg.Cache.StatisticsTTL, 10*time.Second)
		clampMaxDuration(&cfg.Cache.SimulationsTTL, 10*time.Second)
	case "staging":
		cfg.Environment = "staging"
		if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
			cfg.LogLevel = "info"
		}
		clampMaxDuration(&cfg.RequestTimeout, 20*time.Second)
	case "production", "prod":
		cfg.Environment = "production"
		if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
			cfg.LogLevel = "info"
		}
		clampMaxDuration(&cfg.RequestTimeout, 10*time.Second)
		if strings.HasPrefix(cfg.APIBaseURL, "http://") {
			return fmt.Errorf("production environment requires an https api_base_url, got %q", cfg.APIBaseURL)
		}
	default:
		return fmt.Errorf("unknown environment %q (supported: local|staging|production)", env)
	}

	return nil
}

func clampMaxDuration(v *time.Duration, max time.Duration) {
	if max <= 0 {
		return
	}
	if *v <= 0 || *v > max {
		*v = max
	}
}

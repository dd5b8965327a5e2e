package config

import (
	"fmt"
	"net/url"
	"strings"
)

var experienceLevels = map[string]bool{
	"NOVICE":       true,
	"INTERMEDIATE": true,
	"ADVANCED":     true,
	"EXPERT":       true,
}

// Validate checks the settings that would otherwise fail at request time.
func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIBaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL, got %q", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0, got %v", c.RequestTimeout)
	}

	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "staging", "production":
	default:
		return fmt.Errorf("environment must be 'local', 'staging' or 'production', got %q", c.Environment)
	}

	level := strings.ToUpper(strings.TrimSpace(c.ExperienceLevel))
	if level != "" && !experienceLevels[level] {
		return fmt.Errorf("experience_level must be NOVICE, INTERMEDIATE, ADVANCED or EXPERT, got %q", c.ExperienceLevel)
	}

	if c.Cache.StatisticsTTL < 0 || c.Cache.SimulationsTTL < 0 || c.Cache.StrategiesTTL < 0 || c.Cache.AssetsTTL < 0 {
		return fmt.Errorf("cache ttl values must be >= 0")
	}
	if c.Recent.Limit <= 0 {
		return fmt.Errorf("recent.limit must be > 0, got %d", c.Recent.Limit)
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("dashboard.refresh_interval must be > 0, got %v", c.Dashboard.RefreshInterval)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be > 0, got %v", c.Watch.Interval)
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.enabled requires bot_token and chat_id")
	}

	return nil
}

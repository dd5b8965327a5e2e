package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL      string        `yaml:"api_base_url"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	// Environment names the preset applied at startup. Empty applies none.
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
	SessionFile     string        `yaml:"session_file"`
	ExperienceLevel string        `yaml:"experience_level"`

	Cache     CacheConfig     `yaml:"cache"`
	Recent    RecentConfig    `yaml:"recent"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Watch     WatchConfig     `yaml:"watch"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type DashboardConfig struct {
	Addr            string        `yaml:"addr"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// CacheConfig sets how long fetched payloads stay fresh. A zero TTL keeps the
// entry until it is invalidated.
type CacheConfig struct {
	StatisticsTTL  time.Duration `yaml:"statistics_ttl"`
	SimulationsTTL time.Duration `yaml:"simulations_ttl"`
	StrategiesTTL  time.Duration `yaml:"strategies_ttl"`
	AssetsTTL      time.Duration `yaml:"assets_ttl"`
}

type RecentConfig struct {
	Limit int `yaml:"limit"`
}

type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func Default() Config {
	return Config{
		APIBaseURL:      "http://localhost:3000/api",
		RequestTimeout:  15 * time.Second,
		LogLevel:        "info",
		ExperienceLevel: "NOVICE",
		Cache: CacheConfig{
			StatisticsTTL:  time.Minute,
			SimulationsTTL: 30 * time.Second,
			StrategiesTTL:  10 * time.Minute,
			AssetsTTL:      0,
		},
		Recent: RecentConfig{
			Limit: 5,
		},
		Dashboard: DashboardConfig{
			Addr:            "127.0.0.1:8090",
			RefreshInterval: 5 * time.Second,
		},
		Watch: WatchConfig{
			Interval: time.Minute,
		},
	}
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding values that are already set. Missing files
// are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("OPTIONSLAB_API_URL")); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OPTIONSLAB_REQUEST_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("OPTIONSLAB_ENV")); v != "" {
		c.Environment = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("OPTIONSLAB_LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("OPTIONSLAB_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("OPTIONSLAB_SESSION_FILE"); v != "" {
		c.SessionFile = v
	}
	if v := strings.TrimSpace(os.Getenv("OPTIONSLAB_EXPERIENCE_LEVEL")); v != "" {
		c.ExperienceLevel = strings.ToUpper(v)
	}
	if v := os.Getenv("OPTIONSLAB_DASHBOARD_ADDR"); v != "" {
		c.Dashboard.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := strings.TrimSpace(os.Getenv("OPTIONSLAB_TELEGRAM_ENABLED")); v != "" {
		c.Telegram.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
}

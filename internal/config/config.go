// Package config loads akaun settings from an optional YAML file and
// AKAUN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/akaun/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. AKAUN_PLAYER_NAME.
const EnvPrefix = "AKAUN"

type Config struct {
	Player      PlayerConfig      `mapstructure:"player" yaml:"player"`
	Database    DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard" yaml:"leaderboard"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	LLM         llm.Config        `mapstructure:"llm" yaml:"llm"`
	Coach       CoachConfig       `mapstructure:"coach" yaml:"coach"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

type PlayerConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
}

type DatabaseConfig struct {
	// Path is the SQLite file. Empty means store.DefaultDBPath.
	Path string `mapstructure:"path" yaml:"path"`
}

type LeaderboardConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend"`
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Limit   int           `mapstructure:"limit" yaml:"limit"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

type ServerConfig struct {
	Addr      string          `mapstructure:"addr" yaml:"addr"`
	Mode      string          `mapstructure:"mode" yaml:"mode"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	// SessionTTL drops idle API sessions.
	SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

type CoachConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Leaderboard: LeaderboardConfig{
			Backend: "local",
			Timeout: 10 * time.Second,
			Limit:   50,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 5,
				Burst:             20,
			},
			SessionTTL: 2 * time.Hour,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Dir returns $XDG_CONFIG_HOME/akaun, or ~/.config/akaun.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "akaun"), nil
}

// Load reads configuration. When file is empty, config.yaml is searched
// in Dir() and the working directory; a missing file is not an error.
// Environment variables override the file, e.g. AKAUN_LEADERBOARD_BACKEND.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys are also read from their conventional names.
	v.BindEnv("llm.anthropic.api_key", "AKAUN_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.openai.api_key", "AKAUN_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.gemini.api_key", "AKAUN_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("llm.openrouter.api_key", "AKAUN_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	v.BindEnv("database.path", "AKAUN_DATABASE_PATH", "AKAUN_DB")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	raw, err := yaml.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("config: marshal defaults: %v", err))
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		panic(fmt.Sprintf("config: unmarshal defaults: %v", err))
	}
	walk("", tree, v.SetDefault)
}

func walk(prefix string, node map[string]any, set func(string, any)) {
	for k, val := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := val.(map[string]any); ok {
			walk(key, child, set)
			continue
		}
		set(key, val)
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	switch c.Leaderboard.Backend {
	case "local", "":
	case "http", "redis", "postgres":
		if c.Leaderboard.URL == "" {
			return fmt.Errorf("leaderboard.url is required for the %s backend", c.Leaderboard.Backend)
		}
	default:
		return fmt.Errorf("unknown leaderboard backend %q", c.Leaderboard.Backend)
	}
	if c.Server.RateLimit.RequestsPerSecond < 0 || c.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	return nil
}

// Write saves c as YAML to path, creating the directory.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, raw, 0o600)
}

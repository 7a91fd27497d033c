// Package config loads quizpath settings from a YAML file, the environment
// and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// QUIZPATH_SERVER_BASE_URL.
const EnvPrefix = "QUIZPATH"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	UserID string       `mapstructure:"user_id"`
	Quiz   QuizConfig   `mapstructure:"quiz"`
	Log    LogConfig    `mapstructure:"log"`
	DB     string       `mapstructure:"db"`
	Mock   MockConfig   `mapstructure:"mock"`
}

// ServerConfig locates the quiz backend.
type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type QuizConfig struct {
	TotalQuestions int `mapstructure:"total_questions"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// MockConfig configures the bundled offline backend.
type MockConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client
	Burst     int     `mapstructure:"burst"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 30 * time.Second,
		},
		UserID: "default_user",
		Quiz:   QuizConfig{TotalQuestions: 10},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Mock: MockConfig{
			Addr:      "127.0.0.1:8000",
			RateLimit: 20,
			Burst:     40,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("user_id", d.UserID)
	v.SetDefault("quiz.total_questions", d.Quiz.TotalQuestions)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("db", d.DB)
	v.SetDefault("mock.addr", d.Mock.Addr)
	v.SetDefault("mock.rate_limit", d.Mock.RateLimit)
	v.SetDefault("mock.burst", d.Mock.Burst)
}

// New returns a viper instance with defaults and environment binding but
// no file. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names used by earlier releases and by the web client.
	_ = v.BindEnv("server.api_key", EnvPrefix+"_SERVER_API_KEY", EnvPrefix+"_API_KEY")
	_ = v.BindEnv("server.base_url", EnvPrefix+"_SERVER_BASE_URL", EnvPrefix+"_API_URL")
	return v
}

// Load reads configuration into v. When path is empty the default
// config directory is searched and a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server.base_url %q must be an absolute http(s) URL", c.Server.BaseURL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Quiz.TotalQuestions < 1 || c.Quiz.TotalQuestions > 100 {
		return fmt.Errorf("quiz.total_questions must be between 1 and 100, got %d", c.Quiz.TotalQuestions)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Mock.RateLimit < 0 || c.Mock.Burst < 0 {
		return errors.New("mock.rate_limit and mock.burst must not be negative")
	}
	return nil
}

// DefaultDir resolves the config directory:
// 1. $XDG_CONFIG_HOME/quizpath
// 2. ~/.config/quizpath
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "quizpath"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "quizpath"), nil
}

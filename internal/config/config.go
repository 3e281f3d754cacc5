// Package config loads service configuration from environment variables and
// an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	ERP    ERPConfig    `mapstructure:"erp"`
	Log    LogConfig    `mapstructure:"log"`
	Draft  DraftConfig  `mapstructure:"draft"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ERPConfig holds connection settings for the ERP backend.
type ERPConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DraftConfig holds draft session settings.
type DraftConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Load reads configuration with env-first precedence. Environment variables use
// the TALLER_ prefix with underscores, e.g. TALLER_ERP_BASE_URL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("erp.base_url", "http://localhost:8000/api/v1")
	v.SetDefault("erp.timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("draft.session_ttl", 4*time.Hour)

	v.SetEnvPrefix("TALLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/taller")
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ERP.BaseURL == "" {
		return nil, fmt.Errorf("erp.base_url is required")
	}

	return &cfg, nil
}

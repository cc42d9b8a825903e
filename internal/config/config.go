// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Web Server
	WebServerPort int    `mapstructure:"WEB_SERVER_PORT"`
	WebRoot       string `mapstructure:"WEB_ROOT"`
	MaxUploadMB   int    `mapstructure:"MAX_UPLOAD_MB"`

	// MQTT
	MQTTBroker      string `mapstructure:"MQTT_BROKER"`
	MQTTClientIDWeb string `mapstructure:"MQTT_CLIENT_ID_WEB"`
	TopicStatus     string `mapstructure:"TOPIC_STATUS"`

	// Redis view-state store
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	RedisPassword       string `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int    `mapstructure:"REDIS_DB"`
	ViewStateTTLMinutes int    `mapstructure:"VIEW_STATE_TTL_MINUTES"`

	// Processing
	DisplayTimezone  string  `mapstructure:"DISPLAY_TIMEZONE"`
	DriftWarnSeconds float64 `mapstructure:"DRIFT_WARN_SECONDS"`
	Integrate        bool    `mapstructure:"INTEGRATE"`
	AccelTilt        bool    `mapstructure:"ACCEL_TILT"`
}

var defaults = map[string]any{
	"WEB_SERVER_PORT":        8080,
	"WEB_ROOT":               "web",
	"MAX_UPLOAD_MB":          32,
	"MQTT_BROKER":            "",
	"MQTT_CLIENT_ID_WEB":     "inertial-viewer-web",
	"TOPIC_STATUS":           "inertial/viewer/status",
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"VIEW_STATE_TTL_MINUTES": 60,
	"DISPLAY_TIMEZONE":       "UTC",
	"DRIFT_WARN_SECONDS":     1.0,
	"INTEGRATE":              true,
	"ACCEL_TILT":             false,
}

// Package-level singleton, same contract as before:
//   - globalConfig is only set by InitGlobal.
//   - configOnce makes repeated InitGlobal calls no-ops.
//   - configMu lets Get run concurrently with other readers.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the KEY=VALUE configuration file (optional, pass "" to skip),
// applies environment overrides and returns a validated Config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		v.SetConfigFile(configPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.UnmarshalExact(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.WebServerPort < 1 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.ViewStateTTLMinutes < 0 {
		return fmt.Errorf("VIEW_STATE_TTL_MINUTES must not be negative, got %d", c.ViewStateTTLMinutes)
	}
	if c.DriftWarnSeconds < 0 {
		return fmt.Errorf("DRIFT_WARN_SECONDS must not be negative, got %g", c.DriftWarnSeconds)
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	if c.MQTTBroker != "" && c.TopicStatus == "" {
		return fmt.Errorf("TOPIC_STATUS is required when MQTT_BROKER is set")
	}
	return nil
}

// Location returns the display time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ViewStateTTL is the lifetime of a cached view state. Zero means no expiry.
func (c *Config) ViewStateTTL() time.Duration {
	return time.Duration(c.ViewStateTTLMinutes) * time.Minute
}

// MaxUploadBytes is the multipart size limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inertial_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebServerPort != 8080 || cfg.WebRoot != "web" || cfg.MaxUploadMB != 32 {
		t.Fatalf("unexpected web defaults %+v", cfg)
	}
	if !cfg.Integrate || cfg.AccelTilt {
		t.Fatalf("unexpected processing defaults %+v", cfg)
	}
	if cfg.DriftWarnSeconds != 1.0 || cfg.Location() != time.UTC {
		t.Fatalf("unexpected drift/timezone defaults %+v", cfg)
	}
	if cfg.ViewStateTTL() != time.Hour {
		t.Fatalf("expected one hour ttl, got %v", cfg.ViewStateTTL())
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `# viewer
WEB_SERVER_PORT=9090
DISPLAY_TIMEZONE=Europe/Berlin
DRIFT_WARN_SECONDS=0.25
INTEGRATE=false
MQTT_BROKER=tcp://localhost:1883
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebServerPort != 9090 || cfg.DriftWarnSeconds != 0.25 || cfg.Integrate {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %v", cfg.Location())
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" || cfg.TopicStatus != "inertial/viewer/status" {
		t.Fatalf("unexpected mqtt settings %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "WEB_SERVER_PORT=9090\n")
	t.Setenv("WEB_SERVER_PORT", "7000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("ACCEL_TILT", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebServerPort != 7000 {
		t.Fatalf("expected env to win over file, got %d", cfg.WebServerPort)
	}
	if cfg.RedisAddr != "redis:6379" || !cfg.AccelTilt {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "NOT_A_KEY=1\n",
		"port range":      "WEB_SERVER_PORT=70000\n",
		"time zone":       "DISPLAY_TIMEZONE=Mars/Olympus\n",
		"negative drift":  "DRIFT_WARN_SECONDS=-1\n",
		"upload limit":    "MAX_UPLOAD_MB=0\n",
		"non-numeric int": "WEB_SERVER_PORT=http\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

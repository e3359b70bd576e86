package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
host = "sim-farm-03"
etcd_endpoints = ["10.1.0.1:2379", "10.1.0.2:2379"]
request_timeout = "30s"
command_rate = 50.0
log_level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Host != "sim-farm-03" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	// port was not defined: default survives.
	if cfg.Port != 64256 {
		t.Fatalf("default port overwritten: %d", cfg.Port)
	}
	if len(cfg.EtcdEndpoints) != 2 {
		t.Fatalf("unexpected endpoints: %v", cfg.EtcdEndpoints)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout)
	}
	if cfg.CommandRate != 50.0 {
		t.Fatalf("unexpected rate: %v", cfg.CommandRate)
	}
	if cfg.CommandBurst != 1 {
		t.Fatalf("default burst overwritten: %d", cfg.CommandBurst)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	def := Default()
	if cfg.Host != def.Host || cfg.Port != def.Port || cfg.LogLevel != def.LogLevel ||
		cfg.RequestTimeout != def.RequestTimeout || cfg.CommandRate != def.CommandRate ||
		cfg.CommandBurst != def.CommandBurst || len(cfg.EtcdEndpoints) != 0 {
		t.Fatalf("empty file should yield defaults, got %+v", cfg)
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `request_timeout = "thirty seconds"`)

	if _, err := Load(path); err == nil {
		t.Fatal("expect error for unparseable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expect error for missing file")
	}
}

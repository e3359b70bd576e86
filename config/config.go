// Package config loads client settings from a TOML file, overlaying them on
// defaults so a minimal file only names what it changes.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything a client process needs to reach a simulator.
type Config struct {
	Host           string        // simulator host for direct connects
	Port           int           // simulator command port
	EtcdEndpoints  []string      // fleet registry endpoints; empty disables discovery
	RequestTimeout time.Duration // per-request deadline applied by middleware; zero disables
	CommandRate    float64       // commands per second for pacing; zero disables
	CommandBurst   int           // token bucket burst for pacing
	LogLevel       string        // zap level name: debug, info, warn, error
}

// Default returns the settings used when no config file overrides them.
func Default() Config {
	return Config{
		Host:         "localhost",
		Port:         64256,
		CommandBurst: 1,
		LogLevel:     "info",
	}
}

// fileConfig maps TOML keys to Config fields.
type fileConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	EtcdEndpoints  []string `toml:"etcd_endpoints"`
	RequestTimeout string   `toml:"request_timeout"`
	CommandRate    float64  `toml:"command_rate"`
	CommandBurst   int      `toml:"command_burst"`
	LogLevel       string   `toml:"log_level"`
}

// Load reads path and overlays the defined keys on Default. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load client config: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Host = raw.Host
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("etcd_endpoints") {
		cfg.EtcdEndpoints = raw.EtcdEndpoints
	}
	if meta.IsDefined("request_timeout") {
		d, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("load client config: request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if meta.IsDefined("command_rate") {
		cfg.CommandRate = raw.CommandRate
	}
	if meta.IsDefined("command_burst") {
		cfg.CommandBurst = raw.CommandBurst
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	return cfg, nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the profinfo configuration file (~/.config/profinfo/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	ProfilesDir string `yaml:"profiles_dir"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	ByteOrder string `yaml:"byte_order"`

	// Server
	ServerAddress string `yaml:"server_address"`
	CacheSize     *int64 `yaml:"cache_size"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "profinfo", "config.yaml")
}

// loadConfig reads the config file. A missing file yields a zero Config.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") && !c.IsSet("debug") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyProfilesConfig(c *cli.Command, cfg Config) {
	if cfg.ProfilesDir != "" && !c.IsSet("profiles-dir") {
		profilesDir = cfg.ProfilesDir
	}
}

func applyMergeConfig(c *cli.Command, cfg Config, byteOrder *string) {
	if cfg.ByteOrder != "" && !c.IsSet("byte-order") {
		*byteOrder = cfg.ByteOrder
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, cacheSize *int64) {
	applyProfilesConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.CacheSize != nil && !c.IsSet("cache-size") {
		*cacheSize = *cfg.CacheSize
	}
}

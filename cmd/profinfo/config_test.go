package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file is empty config", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"))
		if err != nil {
			t.Fatalf("loadConfig returned error: %v", err)
		}
		if cfg.ProfilesDir != "" || cfg.CacheSize != nil {
			t.Fatalf("expected zero config, got %+v", cfg)
		}
	})

	t.Run("fields are decoded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "profiles_dir: /var/prof\nlog_level: debug\nlog_format: json\nserver_address: :9000\ncache_size: 4\nbyte_order: big\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig returned error: %v", err)
		}
		if cfg.ProfilesDir != "/var/prof" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.ServerAddress != ":9000" || cfg.ByteOrder != "big" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.CacheSize == nil || *cfg.CacheSize != 4 {
			t.Fatalf("unexpected cache size: %v", cfg.CacheSize)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("cache_size: [1\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := loadConfig(path); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestConfigProfilesDirUsedByList(t *testing.T) {
	dir := t.TempDir()
	writeTestDump(t, filepath.Join(dir, "only.out"), nil, sampleSession("x", 1))
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("profiles_dir: "+dir+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envProfilesDir, "")

	app := newApp()
	var out strings.Builder
	app.Writer = &out
	if err := app.Run(t.Context(), []string{toolName, "--config", cfgPath, "--log-level", "error", "list"}); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if !strings.Contains(out.String(), "only.out") {
		t.Fatalf("config profiles_dir was not used:\n%s", out.String())
	}
}

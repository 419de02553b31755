package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/thoreinstein/vmx/internal/platform"
)

func TestInit_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("VMXD_CONFIG_HOME", t.TempDir())

	Init(platform.Detect())

	if got := viper.GetString("log_level"); got != "info" {
		t.Errorf("log_level default = %q, want info", got)
	}
	if got := viper.GetString("log_format"); got != "text" {
		t.Errorf("log_format default = %q, want text", got)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()
	t.Setenv("VMXD_CONFIG_HOME", t.TempDir())

	Init(platform.Detect())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Setenv("VMXD_CONFIG_HOME", dir)

	path := filepath.Join(dir, "config.yaml")
	content := []byte("log_level: debug\nmanifest_path: /srv/streams/index.json\n")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init(platform.Detect())

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ManifestPath != "/srv/streams/index.json" {
		t.Errorf("ManifestPath = %q", cfg.ManifestPath)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("VMXD_CONFIG_HOME", t.TempDir())
	t.Setenv("VMXD_LOG_LEVEL", "warn")

	Init(platform.Detect())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override warn", cfg.LogLevel)
	}
}

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danmuck/mboxctl/internal/config"
	"github.com/danmuck/mboxctl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRuntimeConfigNoFile(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadRuntimeConfig("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if !reflect.DeepEqual(cfg, config.Default()) {
		t.Fatalf("empty path must yield defaults, got %+v", cfg)
	}
}

func TestLoadRuntimeConfigOverlaysOnlyDefinedKeys(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
poll_budget = 40
nvram_path = "  /tmp/nvram.toml  "
`)
	cfg, err := loadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PollBudget != 40 {
		t.Fatalf("poll_budget got=%d want=40", cfg.PollBudget)
	}
	if cfg.NVRAMPath != "/tmp/nvram.toml" {
		t.Fatalf("nvram_path not trimmed: %q", cfg.NVRAMPath)
	}

	def := config.Default()
	if cfg.Channel != def.Channel || cfg.PollDelayMS != def.PollDelayMS || cfg.RegisterBase != def.RegisterBase {
		t.Fatalf("unset keys must keep defaults: %+v", cfg)
	}
}

func TestLoadRuntimeConfigValidates(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "channel = 99\n")
	if _, err := loadRuntimeConfig(path); err == nil {
		t.Fatalf("expected validation failure for channel 99")
	}
}

func TestLoadRuntimeConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := loadRuntimeConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

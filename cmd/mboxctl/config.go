package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/mboxctl/internal/config"
)

// mboxctl config.toml key mapping onto runtime settings.
type fileConfig struct {
	Channel      uint32 `toml:"channel"`
	PollBudget   int    `toml:"poll_budget"`
	PollDelayMS  int    `toml:"poll_delay_ms"`
	BusOffset    uint32 `toml:"bus_offset"`
	RegisterBase uint64 `toml:"register_base"`
	CarveoutBase uint32 `toml:"carveout_base"`
	CarveoutSize int    `toml:"carveout_size"`
	NVRAMPath    string `toml:"nvram_path"`
}

// loadRuntimeConfig overlays an optional TOML file onto the defaults. Only
// keys present in the file override.
func loadRuntimeConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Config{}, fmt.Errorf("load mboxctl config: %w", err)
	}

	if meta.IsDefined("channel") {
		cfg.Channel = raw.Channel
	}
	if meta.IsDefined("poll_budget") {
		cfg.PollBudget = raw.PollBudget
	}
	if meta.IsDefined("poll_delay_ms") {
		cfg.PollDelayMS = raw.PollDelayMS
	}
	if meta.IsDefined("bus_offset") {
		cfg.BusOffset = raw.BusOffset
	}
	if meta.IsDefined("register_base") {
		cfg.RegisterBase = raw.RegisterBase
	}
	if meta.IsDefined("carveout_base") {
		cfg.CarveoutBase = raw.CarveoutBase
	}
	if meta.IsDefined("carveout_size") {
		cfg.CarveoutSize = raw.CarveoutSize
	}
	if meta.IsDefined("nvram_path") {
		cfg.NVRAMPath = strings.TrimSpace(raw.NVRAMPath)
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

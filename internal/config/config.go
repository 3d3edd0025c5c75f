package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/mboxctl/internal/mailbox"
)

// Config is the runtime configuration for the mailbox client tools.
type Config struct {
	// Channel is the property channel id, occupying the low 4 bits of the
	// doorbell word.
	Channel uint32 `toml:"channel"`
	// PollBudget is the number of completion poll attempts per request.
	PollBudget int `toml:"poll_budget"`
	// PollDelayMS is the delay between poll attempts in milliseconds.
	PollDelayMS int `toml:"poll_delay_ms"`
	// BusOffset is added to host physical addresses to form the
	// firmware's view of DRAM.
	BusOffset uint32 `toml:"bus_offset"`
	// RegisterBase is the physical address of the mailbox register block.
	RegisterBase uint64 `toml:"register_base"`
	// CarveoutBase/CarveoutSize locate the reserved request-buffer region.
	CarveoutBase uint32 `toml:"carveout_base"`
	CarveoutSize int    `toml:"carveout_size"`
	// NVRAMPath is where decoded identity is persisted.
	NVRAMPath string `toml:"nvram_path"`
	// DiagAddr is the diagnostics HTTP listen address.
	DiagAddr string `toml:"diag_addr"`
	// CorsOrigins allows browser access to the diagnostics server.
	CorsOrigins []string `toml:"cors_origins"`
}

func Default() Config {
	return Config{
		Channel:      uint32(mailbox.ChannelProperty),
		PollBudget:   10,
		PollDelayMS:  1,
		BusOffset:    mailbox.DefaultBusOffset,
		RegisterBase: 0x3F00B880,
		CarveoutBase: 0x3B000000,
		CarveoutSize: 64 * 1024,
		NVRAMPath:    "/var/lib/mboxctl/nvram.toml",
		DiagAddr:     ":9482",
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if cfg.Channel > 15 {
		return fmt.Errorf("channel %d does not fit the 4 channel bits", cfg.Channel)
	}
	if cfg.PollBudget <= 0 {
		return fmt.Errorf("poll_budget must be positive, got %d", cfg.PollBudget)
	}
	if cfg.PollDelayMS < 0 {
		return fmt.Errorf("poll_delay_ms must not be negative, got %d", cfg.PollDelayMS)
	}
	if cfg.CarveoutSize < 64 {
		return fmt.Errorf("carveout_size %d too small for a request buffer", cfg.CarveoutSize)
	}
	return nil
}

// Engine maps the file config onto the protocol engine configuration.
func (c Config) Engine() mailbox.Config {
	return mailbox.Config{
		Channel:    mailbox.Channel(c.Channel),
		PollBudget: c.PollBudget,
		PollDelay:  time.Duration(c.PollDelayMS) * time.Millisecond,
		BusOffset:  c.BusOffset,
	}
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danmuck/mboxctl/internal/backend"
	"github.com/danmuck/mboxctl/internal/boot"
	"github.com/danmuck/mboxctl/internal/config"
	"github.com/danmuck/mboxctl/internal/firmware"
	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
	"github.com/danmuck/mboxctl/internal/nvram"
	"github.com/danmuck/mboxctl/internal/observability"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "path to config.toml")
		simMode   = flag.Bool("sim", false, "run against the simulated firmware peer")
		op        = flag.String("op", "boot", "operation: boot, mac, board, serial, temp")
		prevState = flag.String("previous-state", "off", "power state the transition comes from: off, on, idle, suspend")
	)
	flag.Parse()

	logger := observability.InitLogger("mboxctl")

	cfg, err := loadRuntimeConfig(*cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}

	regs, alloc, cleanup, err := backend.Open(cfg, *simMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("mailbox backend")
	}
	defer cleanup()

	engine := mailbox.NewEngine(regs, alloc, cfg.Engine())
	engine.SetLogger(logger)
	fw := firmware.NewClient(engine)

	if err := run(*op, *prevState, cfg, fw, *simMode, logger); err != nil {
		logger.Fatal().Err(err).Str("op", *op).Msg("operation failed")
	}
}

func run(op, prevState string, cfg config.Config, fw *firmware.Client, simMode bool, logger zerolog.Logger) error {
	switch op {
	case "boot":
		prev, err := parsePowerState(prevState)
		if err != nil {
			return err
		}
		store, err := openStore(cfg, simMode)
		if err != nil {
			return err
		}
		seq := boot.NewSequencer(fw, loggingIRQEnabler{log: logger}, store, logger)
		return seq.RunFirstBootInit(context.Background(), prev)

	case "mac":
		mac, err := fw.MACAddress()
		if err != nil {
			return err
		}
		fmt.Println(property.MACString(mac))
		return nil

	case "board":
		info, err := fw.BoardInfo()
		if err != nil {
			return err
		}
		fmt.Printf("model    0x%08X\nrevision 0x%08X\nmac      %s\nserial   0x%016X\n",
			info.Model, info.Revision, info.MAC, info.Serial)
		return nil

	case "serial":
		serial, err := fw.BoardSerial()
		if err != nil {
			return err
		}
		fmt.Printf("0x%016X\n", serial)
		return nil

	case "temp":
		milli, err := fw.Temperature()
		if err != nil {
			return err
		}
		fmt.Printf("%d.%03d C\n", milli/1000, milli%1000)
		return nil

	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func openStore(cfg config.Config, simMode bool) (boot.ConfigStore, error) {
	if simMode {
		return nvram.NewMemStore(), nil
	}
	return nvram.OpenFile(cfg.NVRAMPath)
}

func parsePowerState(raw string) (boot.PowerState, error) {
	switch raw {
	case "off":
		return boot.PowerStateOff, nil
	case "on":
		return boot.PowerStateOn, nil
	case "idle":
		return boot.PowerStateIdle, nil
	case "suspend":
		return boot.PowerStateSuspend, nil
	default:
		return boot.PowerStateUnknown, fmt.Errorf("unknown power state %q", raw)
	}
}

// loggingIRQEnabler stands in for the driver infrastructure that flips the
// device to interrupt-driven operation; the CLI has nothing to enable.
type loggingIRQEnabler struct {
	log zerolog.Logger
}

func (e loggingIRQEnabler) EnableInterrupts(ctx context.Context) error {
	e.log.Info().Msg("interrupt-driven operation enabled")
	return nil
}

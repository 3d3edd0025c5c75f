// Package boot owns one-time mailbox initialization: the first-boot MAC
// query, its persistence, and the handoff to interrupt-driven operation.
package boot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danmuck/mboxctl/internal/firmware"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
)

// MACAddressKey is the store key the decoded MAC is published under.
const MACAddressKey = "network.mac_address"

// InterruptEnabler switches the device from polled to interrupt-driven
// operation once early init is done.
type InterruptEnabler interface {
	EnableInterrupts(ctx context.Context) error
}

// ConfigStore persists decoded device identity across boots. nvram.MemStore
// and nvram.FileStore implement it.
type ConfigStore interface {
	WriteValue(key, value string) error
}

// Sequencer orchestrates first-boot initialization.
type Sequencer struct {
	fw    *firmware.Client
	irq   InterruptEnabler
	store ConfigStore
	log   zerolog.Logger
}

func NewSequencer(fw *firmware.Client, irq InterruptEnabler, store ConfigStore, log zerolog.Logger) *Sequencer {
	return &Sequencer{fw: fw, irq: irq, store: store, log: log}
}

// RunFirstBootInit runs the one-time init path for a power transition out of
// prev. On anything but a cold boot it is a no-op returning nil. On a cold
// boot it queries the board MAC address and publishes it to the config
// store; neither step failing aborts boot. Interrupt enablement always runs
// and its failure is the only error returned.
func (s *Sequencer) RunFirstBootInit(ctx context.Context, prev PowerState) error {
	if !prev.ColdBoot() {
		s.log.Info().Stringer("previous_state", prev).Msg("not first boot, nothing to do")
		return nil
	}

	// Boot proceeds without a MAC address rather than failing the device.
	if err := s.publishMACAddress(); err != nil {
		s.log.Error().Err(err).Msg("failed to initialize MAC address")
	}

	if err := s.irq.EnableInterrupts(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to enable mailbox interrupts")
		return fmt.Errorf("enable interrupts: %w", err)
	}
	return nil
}

func (s *Sequencer) publishMACAddress() error {
	mac, err := s.fw.MACAddress()
	if err != nil {
		return fmt.Errorf("query MAC address: %w", err)
	}

	macStr := property.MACString(mac)
	s.log.Info().Str("mac", macStr).Msg("board MAC address")

	if err := s.store.WriteValue(MACAddressKey, macStr); err != nil {
		// The address is still known for this boot; only persistence
		// for later boots is lost.
		s.log.Error().Err(err).Str("key", MACAddressKey).Msg("failed to persist MAC address")
	}
	return nil
}

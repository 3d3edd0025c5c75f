// Package backend selects the register file and allocator pair a command
// runs against: the in-process simulated peer, or /dev/mem on real hardware.
package backend

import (
	"github.com/danmuck/mboxctl/internal/config"
	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/sim"
)

// Open returns the backend pair and a cleanup releasing any mappings. In sim
// mode the peer serves both roles and cleanup is a no-op.
func Open(cfg config.Config, simMode bool) (mailbox.RegisterFile, mailbox.Allocator, func(), error) {
	if simMode {
		peer := sim.NewPeer()
		return peer, peer, func() {}, nil
	}

	mmio, err := mailbox.OpenMMIO(cfg.RegisterBase)
	if err != nil {
		return nil, nil, nil, err
	}
	carve, err := mailbox.OpenCarveout(cfg.CarveoutBase, cfg.CarveoutSize)
	if err != nil {
		mmio.Close()
		return nil, nil, nil, err
	}
	cleanup := func() {
		carve.Close()
		mmio.Close()
	}
	return mmio, carve, cleanup, nil
}

package backend

import (
	"testing"
	"time"

	"github.com/danmuck/mboxctl/internal/config"
	"github.com/danmuck/mboxctl/internal/firmware"
	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/sim"
	"github.com/danmuck/mboxctl/internal/testutil/testlog"
)

func TestOpenSimServesBothRoles(t *testing.T) {
	testlog.Start(t)
	regs, alloc, cleanup, err := Open(config.Default(), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cleanup()

	peer, ok := regs.(*sim.Peer)
	if !ok {
		t.Fatalf("register file is %T, want *sim.Peer", regs)
	}
	if alloc != mailbox.Allocator(peer) {
		t.Fatalf("allocator must be the same peer as the register file")
	}
}

func TestOpenSimBackendCompletesARequest(t *testing.T) {
	testlog.Start(t)
	regs, alloc, cleanup, err := Open(config.Default(), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cleanup()

	cfg := config.Default().Engine()
	cfg.Sleep = func(time.Duration) {}
	fw := firmware.NewClient(mailbox.NewEngine(regs, alloc, cfg))
	if _, err := fw.MACAddress(); err != nil {
		t.Fatalf("mac query over sim backend: %v", err)
	}
}

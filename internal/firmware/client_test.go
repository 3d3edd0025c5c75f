package firmware

import (
	"testing"
	"time"

	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
	"github.com/danmuck/mboxctl/internal/mailbox/sim"
	"github.com/danmuck/mboxctl/internal/testutil/testlog"
)

func newSimClient() (*Client, *sim.Peer) {
	peer := sim.NewPeer()
	cfg := mailbox.DefaultConfig()
	cfg.Sleep = func(time.Duration) {}
	return NewClient(mailbox.NewEngine(peer, peer, cfg)), peer
}

func TestMACAddress(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	mac, err := c.MACAddress()
	if err != nil {
		t.Fatalf("mac: %v", err)
	}
	if mac != peer.Ident.MAC {
		t.Fatalf("mac got=%X want=%X", mac, peer.Ident.MAC)
	}
}

func TestBoardSerial(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	serial, err := c.BoardSerial()
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	if serial != peer.Ident.Serial {
		t.Fatalf("serial got=0x%X want=0x%X", serial, peer.Ident.Serial)
	}
}

func TestFirmwareRevision(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	rev, err := c.FirmwareRevision()
	if err != nil {
		t.Fatalf("firmware revision: %v", err)
	}
	if rev != peer.Ident.FirmwareRevision {
		t.Fatalf("revision got=0x%X want=0x%X", rev, peer.Ident.FirmwareRevision)
	}
}

func TestClockRateEchoesSelector(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	rate, err := c.ClockRate(property.ClockARM)
	if err != nil {
		t.Fatalf("clock rate: %v", err)
	}
	if want := peer.Ident.ClockRates[property.ClockARM]; rate != want {
		t.Fatalf("rate got=%d want=%d", rate, want)
	}
}

func TestTemperature(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	milli, err := c.Temperature()
	if err != nil {
		t.Fatalf("temperature: %v", err)
	}
	if milli != peer.Ident.TempMilliC {
		t.Fatalf("temperature got=%d want=%d", milli, peer.Ident.TempMilliC)
	}
}

func TestMemorySplits(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	base, size, err := c.ARMMemory()
	if err != nil {
		t.Fatalf("arm memory: %v", err)
	}
	if base != peer.Ident.ARMMemBase || size != peer.Ident.ARMMemSize {
		t.Fatalf("arm split got=(0x%X,0x%X) want=(0x%X,0x%X)",
			base, size, peer.Ident.ARMMemBase, peer.Ident.ARMMemSize)
	}
	base, size, err = c.VCMemory()
	if err != nil {
		t.Fatalf("vc memory: %v", err)
	}
	if base != peer.Ident.VCMemBase || size != peer.Ident.VCMemSize {
		t.Fatalf("vc split got=(0x%X,0x%X) want=(0x%X,0x%X)",
			base, size, peer.Ident.VCMemBase, peer.Ident.VCMemSize)
	}
}

func TestBoardInfoUsesOneRequest(t *testing.T) {
	testlog.Start(t)
	c, peer := newSimClient()
	info, err := c.BoardInfo()
	if err != nil {
		t.Fatalf("board info: %v", err)
	}
	if peer.Writes() != 1 {
		t.Fatalf("batch query took %d doorbell writes, want 1", peer.Writes())
	}
	if info.Model != peer.Ident.BoardModel {
		t.Fatalf("model got=0x%X want=0x%X", info.Model, peer.Ident.BoardModel)
	}
	if info.Revision != peer.Ident.BoardRevision {
		t.Fatalf("revision got=0x%X want=0x%X", info.Revision, peer.Ident.BoardRevision)
	}
	if info.MAC != property.MACString(peer.Ident.MAC) {
		t.Fatalf("mac got=%q want=%q", info.MAC, property.MACString(peer.Ident.MAC))
	}
	if info.Serial != peer.Ident.Serial {
		t.Fatalf("serial got=0x%X want=0x%X", info.Serial, peer.Ident.Serial)
	}
}

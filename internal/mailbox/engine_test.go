package mailbox_test

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
	"github.com/danmuck/mboxctl/internal/mailbox/sim"
	"github.com/danmuck/mboxctl/internal/testutil/testlog"
)

func newTestEngine(p *sim.Peer, sleeps *int) *mailbox.Engine {
	cfg := mailbox.DefaultConfig()
	cfg.Sleep = func(time.Duration) { *sleeps++ }
	return mailbox.NewEngine(p, p, cfg)
}

func TestEngineCompletesOnFirstPoll(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	req := property.BuildMACRequest()
	if err := eng.Do(req); err != nil {
		t.Fatalf("do: %v", err)
	}
	if peer.DataReads() != 1 {
		t.Fatalf("poll samples got=%d want=1", peer.DataReads())
	}
	if sleeps != 0 {
		t.Fatalf("sleeps got=%d want=0", sleeps)
	}
	mac, err := req.MAC()
	if err != nil {
		t.Fatalf("mac: %v", err)
	}
	if mac != peer.Ident.MAC {
		t.Fatalf("mac got=%X want=%X", mac, peer.Ident.MAC)
	}
}

func TestEngineCompletesOnNthPollExactly(t *testing.T) {
	testlog.Start(t)
	const n = 7
	peer := sim.NewPeer()
	peer.RespondAfter(n)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	if err := eng.Do(property.BuildMACRequest()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if peer.DataReads() != n {
		t.Fatalf("poll samples got=%d want=%d", peer.DataReads(), n)
	}
	if sleeps != n-1 {
		t.Fatalf("sleeps got=%d want=%d", sleeps, n-1)
	}
}

func TestEngineTimesOutAfterExactBudget(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	peer.SetMode(sim.ModeSilent)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	err := eng.Do(property.BuildMACRequest())
	if !errors.Is(err, mailbox.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if peer.DataReads() != mailbox.DefaultConfig().PollBudget {
		t.Fatalf("poll samples got=%d want=%d", peer.DataReads(), mailbox.DefaultConfig().PollBudget)
	}
	if sleeps != mailbox.DefaultConfig().PollBudget {
		t.Fatalf("sleeps got=%d want=%d", sleeps, mailbox.DefaultConfig().PollBudget)
	}
}

func TestEngineMismatchedEchoIsNeverTerminal(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	peer.SetMode(sim.ModeWrongAddress)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	err := eng.Do(property.BuildMACRequest())
	if !errors.Is(err, mailbox.ErrTimeout) {
		t.Fatalf("mismatched echo must time out, got %v", err)
	}
	if errors.Is(err, mailbox.ErrRejected) {
		t.Fatalf("mismatched echo must not reject")
	}
}

func TestEngineRejectedOnErrorCode(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	peer.SetMode(sim.ModeReject)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	err := eng.Do(property.BuildMACRequest())
	if !errors.Is(err, mailbox.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if peer.DataReads() != 1 {
		t.Fatalf("rejection must not be retried: poll samples got=%d", peer.DataReads())
	}
}

func TestEngineRejectedWhenFlagUnsetDespiteMatch(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	peer.SetMode(sim.ModeIgnore)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	err := eng.Do(property.BuildMACRequest())
	if !errors.Is(err, mailbox.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestEngineAllocationFailureBeforeSubmit(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	peer.FailAllocations()
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	err := eng.Do(property.BuildMACRequest())
	if !errors.Is(err, mailbox.ErrAllocationFailed) {
		t.Fatalf("expected ErrAllocationFailed, got %v", err)
	}
	if peer.Writes() != 0 {
		t.Fatalf("no register traffic allowed after allocation failure, got %d writes", peer.Writes())
	}
}

func TestEngineWaitsOutFullStatusBeforeSubmit(t *testing.T) {
	testlog.Start(t)
	const full = 3
	peer := sim.NewPeer()
	peer.FullFor(full)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	req := property.BuildMACRequest()
	if err := eng.Do(req); err != nil {
		t.Fatalf("do: %v", err)
	}
	if sleeps != full {
		t.Fatalf("sleeps while full got=%d want=%d", sleeps, full)
	}
	if peer.Writes() != 1 {
		t.Fatalf("doorbell writes got=%d want=1", peer.Writes())
	}
	if peer.DataReads() != 1 {
		t.Fatalf("poll samples got=%d want=1", peer.DataReads())
	}
}

func TestEngineReadsStatusBeforeEveryDataRead(t *testing.T) {
	testlog.Start(t)
	peer := sim.NewPeer()
	peer.RespondAfter(4)
	sleeps := 0
	eng := newTestEngine(peer, &sleeps)

	if err := eng.Do(property.BuildMACRequest()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if peer.AckViolations() != 0 {
		t.Fatalf("ack sequence violated %d times", peer.AckViolations())
	}
}

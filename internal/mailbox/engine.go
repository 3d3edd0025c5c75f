package mailbox

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/mboxctl/internal/mailbox/property"
	"github.com/danmuck/mboxctl/internal/observability"
)

// Sleeper blocks the calling thread between poll attempts. Injectable so
// tests can run the poll loop without wall-clock delays.
type Sleeper func(d time.Duration)

// Config defines protocol timing and addressing for one engine.
type Config struct {
	Channel    Channel
	PollBudget int
	PollDelay  time.Duration
	BusOffset  uint32
	Sleep      Sleeper
}

// DefaultConfig returns the reference protocol behavior: property channel,
// 10 poll attempts with a 1ms delay, BCM283x direct-SDRAM bus alias.
func DefaultConfig() Config {
	return Config{
		Channel:    ChannelProperty,
		PollBudget: 10,
		PollDelay:  time.Millisecond,
		BusOffset:  DefaultBusOffset,
	}
}

// Engine owns the submit/poll/validate sequence for one channel. It supports
// a single outstanding request; the caller must not submit concurrently on
// the same channel.
type Engine struct {
	db    Doorbell
	alloc Allocator
	xlate Translator
	cfg   Config
	sleep Sleeper
	log   zerolog.Logger
}

func NewEngine(regs RegisterFile, alloc Allocator, cfg Config) *Engine {
	if cfg.PollBudget <= 0 {
		cfg.PollBudget = DefaultConfig().PollBudget
	}
	if cfg.PollDelay <= 0 {
		cfg.PollDelay = DefaultConfig().PollDelay
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Engine{
		db:    NewDoorbell(regs),
		alloc: alloc,
		xlate: NewTranslator(cfg.BusOffset),
		cfg:   cfg,
		sleep: sleep,
		log:   zerolog.Nop(),
	}
}

// SetLogger attaches a logger; the engine is silent by default.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// Do runs one property request to a terminal state: allocate a
// firmware-addressable buffer, encode the request into it, ring the doorbell,
// poll for the address echo, and decode the completion in place. The buffer
// is owned by the engine until the terminal state and freed unconditionally.
func (e *Engine) Do(req *property.Request) error {
	ch := uint32(e.cfg.Channel)
	tag := req.PrimaryTag()

	buf, err := e.alloc.Alloc(req.Size())
	if err != nil {
		observability.RecordMailboxRequest(ch, tag, "alloc_failed", 0)
		return fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}
	defer e.alloc.Free(buf)

	image := buf.Bytes[:req.Size()]
	if err := req.EncodeTo(image); err != nil {
		return err
	}

	bus := e.xlate.ToBus(buf.HostAddr)
	want := bus &^ ChannelMask
	e.log.Debug().
		Uint32("channel", ch).
		Uint32("tag", tag).
		Uint32("bus_addr", bus).
		Int("size", req.Size()).
		Msg("mailbox submit")
	for i := 0; i < e.cfg.PollBudget && e.db.Full(); i++ {
		e.sleep(e.cfg.PollDelay)
	}
	e.db.Submit(e.cfg.Channel, bus)

	for attempt := 1; attempt <= e.cfg.PollBudget; attempt++ {
		if echo := e.db.PollOnce(); echo == want {
			// The firmware does not re-deliver on this handshake: a
			// matched address without the success flag is terminal.
			if !property.Succeeded(image) {
				observability.RecordMailboxRequest(ch, tag, "rejected", attempt)
				return ErrRejected
			}
			if err := req.Complete(image); err != nil {
				observability.RecordMailboxRequest(ch, tag, "decode_error", attempt)
				return err
			}
			observability.RecordMailboxRequest(ch, tag, "completed", attempt)
			e.log.Debug().Uint32("tag", tag).Int("attempts", attempt).Msg("mailbox completed")
			return nil
		}
		e.sleep(e.cfg.PollDelay)
	}

	observability.RecordMailboxRequest(ch, tag, "timeout", e.cfg.PollBudget)
	return fmt.Errorf("%w: %d attempts", ErrTimeout, e.cfg.PollBudget)
}

// Package sim simulates the firmware side of the mailbox: a register file
// plus a window of shared memory, scriptable enough to drive every terminal
// outcome of the protocol engine without hardware.
package sim

import (
	"encoding/binary"
	"errors"

	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
)

// Identity is the board the simulated firmware reports.
type Identity struct {
	MAC              [6]byte
	Serial           uint64
	BoardModel       uint32
	BoardRevision    uint32
	FirmwareRevision uint32
	ARMMemBase       uint32
	ARMMemSize       uint32
	VCMemBase        uint32
	VCMemSize        uint32
	ClockRates       map[uint32]uint32
	TempMilliC       uint32
}

func DefaultIdentity() Identity {
	return Identity{
		MAC:              [6]byte{0xB8, 0x27, 0xEB, 0x01, 0x02, 0x03},
		Serial:           0x0000000010C0FFEE,
		BoardModel:       0x0000000B,
		BoardRevision:    0x00A02082,
		FirmwareRevision: 0x5F2EA9B4,
		ARMMemBase:       0x00000000,
		ARMMemSize:       0x3B400000,
		VCMemBase:        0x3B400000,
		VCMemSize:        0x04C00000,
		ClockRates: map[uint32]uint32{
			property.ClockARM:  1_200_000_000,
			property.ClockCore: 400_000_000,
			property.ClockUART: 48_000_000,
		},
		TempMilliC: 47200,
	}
}

// Mode selects how the peer answers a submitted request.
type Mode int

const (
	// ModeRespond serves the property request and flags success.
	ModeRespond Mode = iota
	// ModeReject echoes the address with the error code set.
	ModeReject
	// ModeIgnore echoes the address but never touches the buffer, leaving
	// the request code as submitted.
	ModeIgnore
	// ModeWrongAddress echoes a non-matching address forever.
	ModeWrongAddress
	// ModeSilent never delivers anything on the read register.
	ModeSilent
)

const (
	memBase = uint32(0x00100000)
	memSize = 64 * 1024
)

var errAllocDisabled = errors.New("sim: contiguous allocation disabled")

// Peer backs both collaborator contracts the engine needs: the RegisterFile
// and the Allocator carving buffers out of its shared memory window.
type Peer struct {
	Ident Identity

	mode         Mode
	respondAfter int
	fullFor      int

	xlate mailbox.Translator
	mem   []byte
	next  int

	allocFail bool

	submitted uint32
	echo      uint32
	wrong     uint32

	statusReads   int
	dataReads     int
	writes        int
	lastWasStatus bool
	ackViolations int
}

func NewPeer() *Peer {
	return &Peer{
		Ident:        DefaultIdentity(),
		respondAfter: 1,
		xlate:        mailbox.NewTranslator(mailbox.DefaultBusOffset),
		mem:          make([]byte, memSize),
	}
}

// SetMode scripts the peer's answer for subsequent submissions.
func (p *Peer) SetMode(m Mode) { p.mode = m }

// RespondAfter delays the address echo until the nth data-register read
// (1-based) following a submission.
func (p *Peer) RespondAfter(n int) {
	if n < 1 {
		n = 1
	}
	p.respondAfter = n
}

// FullFor makes the next n status reads report the outgoing queue full,
// forcing the submitter to wait before ringing the doorbell.
func (p *Peer) FullFor(n int) { p.fullFor = n }

// FailAllocations makes Alloc return an error, simulating exhaustion of
// contiguous firmware-addressable memory.
func (p *Peer) FailAllocations() { p.allocFail = true }

// Writes returns the number of doorbell writes observed.
func (p *Peer) Writes() int { return p.writes }

// DataReads returns the number of read-register samples since the last
// doorbell write.
func (p *Peer) DataReads() int { return p.dataReads }

// AckViolations counts data-register reads that were not immediately
// preceded by a status read, breaking the hardware's ack sequence.
func (p *Peer) AckViolations() int { return p.ackViolations }

// RegisterFile

func (p *Peer) ReadStatus() uint32 {
	p.statusReads++
	p.lastWasStatus = true
	if p.fullFor > 0 {
		p.fullFor--
		return mailbox.StatusFull
	}
	return 0
}

func (p *Peer) ReadData() uint32 {
	if !p.lastWasStatus {
		p.ackViolations++
	}
	p.lastWasStatus = false
	p.dataReads++

	switch {
	case p.mode == ModeSilent:
		return 0
	case p.dataReads < p.respondAfter || p.mode == ModeWrongAddress:
		return p.wrong
	default:
		return p.echo
	}
}

func (p *Peer) WriteData(word uint32) {
	p.lastWasStatus = false
	p.writes++
	p.dataReads = 0
	p.submitted = word
	p.echo = word
	// A stale completion for some other buffer: same channel, different
	// address.
	p.wrong = word + 0x40

	ch, bus := mailbox.UnpackAddr(word)
	if ch != mailbox.ChannelProperty {
		return
	}
	switch p.mode {
	case ModeRespond:
		p.serve(bus)
	case ModeReject:
		p.fail(bus)
	}
}

// Allocator

func (p *Peer) Alloc(size int) (*mailbox.Buffer, error) {
	if p.allocFail {
		return nil, errAllocDisabled
	}
	off := (p.next + 15) &^ 15
	if off+size > len(p.mem) {
		return nil, errors.New("sim: shared memory window exhausted")
	}
	p.next = off + size
	return &mailbox.Buffer{
		Bytes:    p.mem[off : off+size],
		HostAddr: memBase + uint32(off),
	}, nil
}

func (p *Peer) Free(buf *mailbox.Buffer) {
	if buf == nil {
		return
	}
	off := int(buf.HostAddr - memBase)
	if off >= 0 && off <= p.next {
		p.next = off
	}
}

// window returns the request image a bus address points at.
func (p *Peer) window(bus uint32) []byte {
	off := int(p.xlate.ToHost(bus) - memBase)
	if off < 0 || off+8 > len(p.mem) {
		return nil
	}
	total := int(binary.LittleEndian.Uint32(p.mem[off : off+4]))
	if total < 12 || off+total > len(p.mem) {
		return nil
	}
	return p.mem[off : off+total]
}

// fail leaves an error value without the success bit, the way a firmware
// that could not parse the buffer does.
func (p *Peer) fail(bus uint32) {
	if image := p.window(bus); image != nil {
		binary.LittleEndian.PutUint32(image[4:8], 0x00000001)
	}
}

func (p *Peer) serve(bus uint32) {
	image := p.window(bus)
	if image == nil {
		return
	}
	off := 8
	for off+12 <= len(image) {
		id := binary.LittleEndian.Uint32(image[off : off+4])
		if id == 0 {
			break
		}
		bufLen := int(binary.LittleEndian.Uint32(image[off+4 : off+8]))
		valOff := off + 12
		if valOff+bufLen > len(image) {
			return
		}
		value := image[valOff : valOff+bufLen]
		if n, ok := p.answer(id, value); ok {
			binary.LittleEndian.PutUint32(image[off+8:off+12], uint32(n)|0x80000000)
		}
		off = valOff + (bufLen+3)&^3
	}
	binary.LittleEndian.PutUint32(image[4:8], property.CodeSuccess)
}

// answer fills a tag's value buffer from the board identity and returns the
// response length. Unknown tags are left untouched, as the firmware does.
func (p *Peer) answer(id uint32, value []byte) (int, bool) {
	switch id {
	case property.TagGetBoardMAC:
		if len(value) < 6 {
			return 0, false
		}
		copy(value, p.Ident.MAC[:])
		return 6, true
	case property.TagGetBoardSerial:
		if len(value) < 8 {
			return 0, false
		}
		binary.LittleEndian.PutUint64(value, p.Ident.Serial)
		return 8, true
	case property.TagGetBoardModel:
		return putU32(value, p.Ident.BoardModel)
	case property.TagGetBoardRevision:
		return putU32(value, p.Ident.BoardRevision)
	case property.TagGetFirmwareRevision:
		return putU32(value, p.Ident.FirmwareRevision)
	case property.TagGetARMMemory:
		return putU32Pair(value, p.Ident.ARMMemBase, p.Ident.ARMMemSize)
	case property.TagGetVCMemory:
		return putU32Pair(value, p.Ident.VCMemBase, p.Ident.VCMemSize)
	case property.TagGetClockRate:
		if len(value) < 8 {
			return 0, false
		}
		clock := binary.LittleEndian.Uint32(value[0:4])
		return putU32Pair(value, clock, p.Ident.ClockRates[clock])
	case property.TagGetTemperature:
		if len(value) < 8 {
			return 0, false
		}
		sensor := binary.LittleEndian.Uint32(value[0:4])
		return putU32Pair(value, sensor, p.Ident.TempMilliC)
	default:
		return 0, false
	}
}

func putU32(value []byte, v uint32) (int, bool) {
	if len(value) < 4 {
		return 0, false
	}
	binary.LittleEndian.PutUint32(value, v)
	return 4, true
}

func putU32Pair(value []byte, a, b uint32) (int, bool) {
	if len(value) < 8 {
		return 0, false
	}
	binary.LittleEndian.PutUint32(value[0:4], a)
	binary.LittleEndian.PutUint32(value[4:8], b)
	return 8, true
}

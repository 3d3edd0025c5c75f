package mailbox

// Mailbox register offsets within the BCM283x mailbox block (base+0xB880).
const (
	RegRead   = 0x00 // incoming doorbell word (R)
	RegStatus = 0x18 // full/empty flags (R)
	RegWrite  = 0x20 // outgoing doorbell word (W)
)

// Status register flags.
const (
	StatusFull  uint32 = 1 << 31 // outgoing queue cannot accept a write
	StatusEmpty uint32 = 1 << 30 // incoming queue has nothing to read
)

// RegisterFile is the narrow capability surface over the mailbox register
// block. Implementations must not cache values and must not reorder a
// WriteData against a later ReadStatus. All register address arithmetic lives
// behind this interface.
type RegisterFile interface {
	ReadStatus() uint32
	ReadData() uint32
	WriteData(word uint32)
}

// Doorbell performs the two access sequences the hardware defines: the
// submit write and the single poll sample.
type Doorbell struct {
	regs RegisterFile
}

func NewDoorbell(regs RegisterFile) Doorbell {
	return Doorbell{regs: regs}
}

// Full reports whether the outgoing queue cannot accept a write. Callers
// wait it out before submitting; the wait policy lives with the caller.
func (d Doorbell) Full() bool {
	return d.regs.ReadStatus()&StatusFull != 0
}

// Submit rings the doorbell with busAddr on the given channel. The write
// itself cannot fail; the caller checks Full first.
func (d Doorbell) Submit(ch Channel, busAddr uint32) {
	d.regs.WriteData(PackAddr(ch, busAddr))
}

// PollOnce takes one non-blocking sample of the incoming doorbell. The status
// register is read first to satisfy the hardware's acknowledgment sequence;
// its value is discarded. The returned address has the channel bits masked
// off, matching how submitted addresses are compared.
func (d Doorbell) PollOnce() uint32 {
	_ = d.regs.ReadStatus()
	_, addr := UnpackAddr(d.regs.ReadData())
	return addr
}

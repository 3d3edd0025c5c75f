//go:build linux

package mailbox

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MMIO is a RegisterFile over the mailbox register block mapped from
// /dev/mem. Register access uses atomic loads and stores so the doorbell
// write cannot be reordered against the following status read.
type MMIO struct {
	mem []byte
	off int
}

// OpenMMIO maps the page containing the mailbox register block. base is the
// physical address of the block (the BCM283x mailbox lives at
// peripheral base + 0xB880).
func OpenMMIO(base uint64) (*MMIO, error) {
	page := uint64(os.Getpagesize())
	pageBase := base &^ (page - 1)

	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("mailbox: open /dev/mem: %w", err)
	}
	defer f.Close()

	mem, err := unix.Mmap(int(f.Fd()), int64(pageBase), int(page),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mailbox: mmap register page at 0x%X: %w", pageBase, err)
	}

	return &MMIO{mem: mem, off: int(base - pageBase)}, nil
}

func (m *MMIO) reg(off int) *uint32 {
	return (*uint32)(unsafe.Pointer(&m.mem[m.off+off]))
}

func (m *MMIO) ReadStatus() uint32 {
	return atomic.LoadUint32(m.reg(RegStatus))
}

func (m *MMIO) ReadData() uint32 {
	return atomic.LoadUint32(m.reg(RegRead))
}

func (m *MMIO) WriteData(word uint32) {
	atomic.StoreUint32(m.reg(RegWrite), word)
}

func (m *MMIO) Close() error {
	return unix.Munmap(m.mem)
}

//go:build linux

package mailbox

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Carveout is an Allocator over a reserved physical memory region mapped
// from /dev/mem. The region must be carved out of the kernel's allocator
// (reserved-memory, no-map) and lie in DRAM the firmware can address; the
// platform is responsible for mapping it uncached.
//
// Allocation is a bump pointer with stack discipline. The protocol holds one
// outstanding request, so Free of the most recent buffer reclaims its bytes.
type Carveout struct {
	mem  []byte
	base uint32
	next int
}

func OpenCarveout(base uint32, size int) (*Carveout, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mailbox: carveout size %d", size)
	}
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("mailbox: open /dev/mem: %w", err)
	}
	defer f.Close()

	mem, err := unix.Mmap(int(f.Fd()), int64(base), size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mailbox: mmap carveout at 0x%X: %w", base, err)
	}
	return &Carveout{mem: mem, base: base}, nil
}

func (c *Carveout) Alloc(size int) (*Buffer, error) {
	off := (c.next + 15) &^ 15
	if off+size > len(c.mem) {
		return nil, fmt.Errorf("mailbox: carveout exhausted: need %d, have %d", size, len(c.mem)-off)
	}
	c.next = off + size
	return &Buffer{
		Bytes:    c.mem[off : off+size],
		HostAddr: c.base + uint32(off),
	}, nil
}

func (c *Carveout) Free(buf *Buffer) {
	if buf == nil {
		return
	}
	off := int(buf.HostAddr - c.base)
	if off >= 0 && off <= c.next {
		c.next = off
	}
}

func (c *Carveout) Close() error {
	return unix.Munmap(c.mem)
}

//go:build !linux

package mailbox

import "errors"

var errNoDevMem = errors.New("mailbox: /dev/mem access is only supported on linux")

// MMIO and Carveout require /dev/mem; on other platforms only the simulated
// peer backend is available.
type MMIO struct{}

func OpenMMIO(base uint64) (*MMIO, error) {
	return nil, errNoDevMem
}

func (m *MMIO) ReadStatus() uint32    { return 0 }
func (m *MMIO) ReadData() uint32      { return 0 }
func (m *MMIO) WriteData(word uint32) {}
func (m *MMIO) Close() error          { return nil }

type Carveout struct{}

func OpenCarveout(base uint32, size int) (*Carveout, error) {
	return nil, errNoDevMem
}

func (c *Carveout) Alloc(size int) (*Buffer, error) { return nil, errNoDevMem }
func (c *Carveout) Free(buf *Buffer)                {}
func (c *Carveout) Close() error                    { return nil }

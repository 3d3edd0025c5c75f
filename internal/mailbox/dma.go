package mailbox

// Buffer is one contiguous, firmware-addressable, non-cached memory block.
// HostAddr is the physical address of Bytes[0]; the firmware reaches the same
// bytes through the translated bus address.
type Buffer struct {
	Bytes    []byte
	HostAddr uint32
}

// Allocator supplies request buffers the firmware can address directly.
// Returned buffers must be 16-byte aligned (the doorbell word reserves the
// low 4 bits for the channel id) and must stay mapped until freed.
type Allocator interface {
	Alloc(size int) (*Buffer, error)
	Free(buf *Buffer)
}

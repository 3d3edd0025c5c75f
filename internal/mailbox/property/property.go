package property

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerLen    = 8
	tagHeaderLen = 12
	endTagLen    = 4

	endTag uint32 = 0

	// CodeSuccess is bit 31 of the buffer's request/response code; the
	// remaining bits carry a firmware status code. A request is submitted
	// with CodeRequest; on completion the firmware either sets the success
	// bit or leaves an error value without it.
	CodeRequest uint32 = 0x00000000
	CodeSuccess uint32 = 0x80000000

	// responseBit marks a per-tag request/response length field as a
	// response length.
	responseBit uint32 = 1 << 31
)

var (
	ErrRequestRejected = errors.New("property: firmware did not flag success")
	ErrUnexpectedTag   = errors.New("property: unexpected tag in response")
	ErrUnknownTag      = errors.New("property: tag not present in request")
	ErrNoResponse      = errors.New("property: tag carries no response")
	ErrShortValue      = errors.New("property: response value too short")
	ErrSizeMismatch    = errors.New("property: buffer size mismatch")
	ErrOversizePayload = errors.New("property: request payload exceeds value buffer")
)

// Tag describes one property block: a numeric id, the value buffer capacity
// in bytes, and an optional request payload occupying the same bytes the
// response will overwrite.
type Tag struct {
	ID      uint32
	BufLen  int
	Request []byte
}

// Request is one property request buffer. The wire image is little-endian
// u32 fields: total size, request/response code, the tag blocks (id, value
// buffer size, request/response length, value bytes padded to 4), and a
// terminating end tag. The image is fixed at construction; completion is
// decoded back into the same bytes.
type Request struct {
	tags    []Tag
	offsets []int
	image   []byte
}

func align4(n int) int {
	return (n + 3) &^ 3
}

// NewRequest builds a well-formed request buffer holding the given tags in
// order. The only failure is a request payload larger than its value buffer.
func NewRequest(tags ...Tag) (*Request, error) {
	size := headerLen
	offsets := make([]int, len(tags))
	for i, t := range tags {
		if len(t.Request) > t.BufLen {
			return nil, fmt.Errorf("%w: tag 0x%08X payload %d > buffer %d",
				ErrOversizePayload, t.ID, len(t.Request), t.BufLen)
		}
		offsets[i] = size
		size += tagHeaderLen + align4(t.BufLen)
	}
	size += endTagLen

	image := make([]byte, size)
	binary.LittleEndian.PutUint32(image[0:4], uint32(size))
	binary.LittleEndian.PutUint32(image[4:8], CodeRequest)
	for i, t := range tags {
		off := offsets[i]
		binary.LittleEndian.PutUint32(image[off:off+4], t.ID)
		binary.LittleEndian.PutUint32(image[off+4:off+8], uint32(t.BufLen))
		binary.LittleEndian.PutUint32(image[off+8:off+12], uint32(len(t.Request)))
		copy(image[off+tagHeaderLen:], t.Request)
	}
	binary.LittleEndian.PutUint32(image[size-endTagLen:], endTag)

	return &Request{tags: tags, offsets: offsets, image: image}, nil
}

// Size returns the fixed byte length of the wire image.
func (r *Request) Size() int {
	return len(r.image)
}

// PrimaryTag returns the id of the first tag, or 0 for an empty request.
func (r *Request) PrimaryTag() uint32 {
	if len(r.tags) == 0 {
		return 0
	}
	return r.tags[0].ID
}

// EncodeTo copies the request image into dst, which must hold Size() bytes.
func (r *Request) EncodeTo(dst []byte) error {
	if len(dst) < len(r.image) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrSizeMismatch, len(r.image), len(dst))
	}
	copy(dst, r.image)
	return nil
}

// Succeeded reports whether a completed buffer image carries the success bit.
func Succeeded(image []byte) bool {
	return len(image) >= headerLen &&
		binary.LittleEndian.Uint32(image[4:8])&CodeSuccess != 0
}

// Complete decodes a completed buffer image back into the request. It checks
// the top-level success bit and, defensively, that the firmware left the tag
// ids and end tag intact.
func (r *Request) Complete(src []byte) error {
	if len(src) != len(r.image) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(src), len(r.image))
	}
	copy(r.image, src)

	if !Succeeded(r.image) {
		return ErrRequestRejected
	}
	for i, t := range r.tags {
		off := r.offsets[i]
		if id := binary.LittleEndian.Uint32(r.image[off : off+4]); id != t.ID {
			return fmt.Errorf("%w: tag[%d] id 0x%08X, want 0x%08X", ErrUnexpectedTag, i, id, t.ID)
		}
	}
	if end := binary.LittleEndian.Uint32(r.image[len(r.image)-endTagLen:]); end != endTag {
		return fmt.Errorf("%w: end tag overwritten with 0x%08X", ErrUnexpectedTag, end)
	}
	return nil
}

// Value returns the response bytes of the first tag with the given id. The
// returned slice aliases the request image and holds the lesser of the
// response length and the value buffer capacity.
func (r *Request) Value(id uint32) ([]byte, error) {
	for i, t := range r.tags {
		if t.ID != id {
			continue
		}
		off := r.offsets[i]
		rr := binary.LittleEndian.Uint32(r.image[off+8 : off+12])
		if rr&responseBit == 0 {
			return nil, fmt.Errorf("%w: tag 0x%08X", ErrNoResponse, id)
		}
		n := int(rr &^ responseBit)
		if n > t.BufLen {
			n = t.BufLen
		}
		return r.image[off+tagHeaderLen : off+tagHeaderLen+n], nil
	}
	return nil, fmt.Errorf("%w: tag 0x%08X", ErrUnknownTag, id)
}

// ValueU32 returns a tag's response as one little-endian u32.
func (r *Request) ValueU32(id uint32) (uint32, error) {
	v, err := r.Value(id)
	if err != nil {
		return 0, err
	}
	if len(v) < 4 {
		return 0, fmt.Errorf("%w: tag 0x%08X has %d bytes", ErrShortValue, id, len(v))
	}
	return binary.LittleEndian.Uint32(v), nil
}

// ValueU64 returns a tag's response as one little-endian u64.
func (r *Request) ValueU64(id uint32) (uint64, error) {
	v, err := r.Value(id)
	if err != nil {
		return 0, err
	}
	if len(v) < 8 {
		return 0, fmt.Errorf("%w: tag 0x%08X has %d bytes", ErrShortValue, id, len(v))
	}
	return binary.LittleEndian.Uint64(v), nil
}

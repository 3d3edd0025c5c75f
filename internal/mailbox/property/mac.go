package property

import "fmt"

// MACLen is the byte length of a board MAC address response.
const MACLen = 6

// BuildMACRequest builds a single-tag request querying the board MAC address:
// zero-length input, 6-byte output region.
func BuildMACRequest() *Request {
	r, err := NewRequest(Tag{ID: TagGetBoardMAC, BufLen: MACLen})
	if err != nil {
		// No payload, cannot overflow.
		panic(err)
	}
	return r
}

// MAC returns the 6 raw MAC bytes from a completed MAC request.
func (r *Request) MAC() ([MACLen]byte, error) {
	var mac [MACLen]byte
	v, err := r.Value(TagGetBoardMAC)
	if err != nil {
		return mac, err
	}
	if len(v) < MACLen {
		return mac, fmt.Errorf("%w: MAC response has %d bytes", ErrShortValue, len(v))
	}
	copy(mac[:], v)
	return mac, nil
}

// MACString renders a MAC address as 12 uppercase hex characters with no
// separators, the form the persisted network address uses.
func MACString(mac [MACLen]byte) string {
	return fmt.Sprintf("%02X%02X%02X%02X%02X%02X",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}

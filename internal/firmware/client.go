// Package firmware exposes typed board queries over the mailbox property
// protocol.
package firmware

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
)

// Client issues property requests through one protocol engine. It inherits
// the engine's single-outstanding-request constraint.
type Client struct {
	eng *mailbox.Engine
}

func NewClient(eng *mailbox.Engine) *Client {
	return &Client{eng: eng}
}

// BoardInfo is the identity snapshot served by one batch request.
type BoardInfo struct {
	Model    uint32 `json:"model"`
	Revision uint32 `json:"revision"`
	MAC      string `json:"mac"`
	Serial   uint64 `json:"serial"`
}

// MACAddress queries the board MAC address: 6 raw bytes.
func (c *Client) MACAddress() ([property.MACLen]byte, error) {
	req := property.BuildMACRequest()
	if err := c.eng.Do(req); err != nil {
		return [property.MACLen]byte{}, err
	}
	return req.MAC()
}

// BoardSerial queries the 64-bit board serial number.
func (c *Client) BoardSerial() (uint64, error) {
	req, err := property.NewRequest(property.Tag{ID: property.TagGetBoardSerial, BufLen: 8})
	if err != nil {
		return 0, err
	}
	if err := c.eng.Do(req); err != nil {
		return 0, err
	}
	return req.ValueU64(property.TagGetBoardSerial)
}

func (c *Client) BoardModel() (uint32, error) {
	return c.queryU32(property.TagGetBoardModel)
}

func (c *Client) BoardRevision() (uint32, error) {
	return c.queryU32(property.TagGetBoardRevision)
}

func (c *Client) FirmwareRevision() (uint32, error) {
	return c.queryU32(property.TagGetFirmwareRevision)
}

// ClockRate queries the rate of one clock in Hz. The clock id is both the
// request payload and the first response word.
func (c *Client) ClockRate(clock uint32) (uint32, error) {
	return c.queryPair(property.TagGetClockRate, clock)
}

// Temperature queries the SoC temperature in thousandths of a degree C.
func (c *Client) Temperature() (uint32, error) {
	return c.queryPair(property.TagGetTemperature, 0)
}

// ARMMemory queries the base and size of the ARM-owned DRAM split.
func (c *Client) ARMMemory() (base, size uint32, err error) {
	return c.memorySplit(property.TagGetARMMemory)
}

// VCMemory queries the base and size of the VideoCore-owned DRAM split.
func (c *Client) VCMemory() (base, size uint32, err error) {
	return c.memorySplit(property.TagGetVCMemory)
}

// BoardInfo fetches model, revision, MAC, and serial in one multi-tag
// request buffer.
func (c *Client) BoardInfo() (BoardInfo, error) {
	req, err := property.NewRequest(
		property.Tag{ID: property.TagGetBoardModel, BufLen: 4},
		property.Tag{ID: property.TagGetBoardRevision, BufLen: 4},
		property.Tag{ID: property.TagGetBoardMAC, BufLen: property.MACLen},
		property.Tag{ID: property.TagGetBoardSerial, BufLen: 8},
	)
	if err != nil {
		return BoardInfo{}, err
	}
	if err := c.eng.Do(req); err != nil {
		return BoardInfo{}, err
	}

	info := BoardInfo{}
	if info.Model, err = req.ValueU32(property.TagGetBoardModel); err != nil {
		return BoardInfo{}, err
	}
	if info.Revision, err = req.ValueU32(property.TagGetBoardRevision); err != nil {
		return BoardInfo{}, err
	}
	mac, err := req.MAC()
	if err != nil {
		return BoardInfo{}, err
	}
	info.MAC = property.MACString(mac)
	if info.Serial, err = req.ValueU64(property.TagGetBoardSerial); err != nil {
		return BoardInfo{}, err
	}
	return info, nil
}

func (c *Client) queryU32(tag uint32) (uint32, error) {
	req, err := property.NewRequest(property.Tag{ID: tag, BufLen: 4})
	if err != nil {
		return 0, err
	}
	if err := c.eng.Do(req); err != nil {
		return 0, err
	}
	return req.ValueU32(tag)
}

// queryPair issues a [selector in, (selector, value) out] shaped tag and
// returns the value word.
func (c *Client) queryPair(tag, selector uint32) (uint32, error) {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload, selector)
	req, err := property.NewRequest(property.Tag{ID: tag, BufLen: 8, Request: payload[:4]})
	if err != nil {
		return 0, err
	}
	if err := c.eng.Do(req); err != nil {
		return 0, err
	}
	v, err := req.Value(tag)
	if err != nil {
		return 0, err
	}
	if len(v) < 8 {
		return 0, fmt.Errorf("%w: pair response has %d bytes", property.ErrShortValue, len(v))
	}
	return binary.LittleEndian.Uint32(v[4:8]), nil
}

func (c *Client) memorySplit(tag uint32) (uint32, uint32, error) {
	req, err := property.NewRequest(property.Tag{ID: tag, BufLen: 8})
	if err != nil {
		return 0, 0, err
	}
	if err := c.eng.Do(req); err != nil {
		return 0, 0, err
	}
	v, err := req.Value(tag)
	if err != nil {
		return 0, 0, err
	}
	if len(v) < 8 {
		return 0, 0, fmt.Errorf("%w: memory split has %d bytes", property.ErrShortValue, len(v))
	}
	return binary.LittleEndian.Uint32(v[0:4]), binary.LittleEndian.Uint32(v[4:8]), nil
}

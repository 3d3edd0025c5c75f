package mailbox

// Channel selects which firmware queue a doorbell write targets. The channel
// id rides in the low 4 bits of the transferred bus address, so buffers must
// be at least 16-byte aligned.
type Channel uint32

const (
	ChannelPower       Channel = 0
	ChannelFramebuffer Channel = 1
	ChannelVirtUART    Channel = 2
	ChannelVCHIQ       Channel = 3
	ChannelLEDs        Channel = 4
	ChannelButtons     Channel = 5
	ChannelTouch       Channel = 6
	ChannelCounter     Channel = 7

	// ChannelProperty is the ARM-to-VC property interface channel.
	ChannelProperty Channel = 8
)

// ChannelMask covers the channel bits of a doorbell word. The firmware echoes
// address-plus-channel, so the mask must be applied before comparing an echo
// against the submitted address.
const ChannelMask uint32 = 0xF

// PackAddr merges a bus address and a channel id into one doorbell word.
func PackAddr(ch Channel, busAddr uint32) uint32 {
	return (busAddr &^ ChannelMask) | (uint32(ch) & ChannelMask)
}

// UnpackAddr splits a doorbell word into its channel id and bus address.
func UnpackAddr(word uint32) (Channel, uint32) {
	return Channel(word & ChannelMask), word &^ ChannelMask
}

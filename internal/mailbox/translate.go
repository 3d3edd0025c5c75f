package mailbox

// DefaultBusOffset is the uncached direct-SDRAM alias the firmware expects
// on BCM283x boards.
const DefaultBusOffset uint32 = 0xC0000000

// Translator converts between host physical addresses and the bus addresses
// the firmware uses for the same DRAM. The two sides see identical memory at
// a fixed offset, so translation is a pure additive bijection.
type Translator struct {
	offset uint32
}

func NewTranslator(offset uint32) Translator {
	return Translator{offset: offset}
}

// ToBus returns the firmware's view of a host physical address.
func (t Translator) ToBus(host uint32) uint32 {
	return host + t.offset
}

// ToHost returns the host physical address behind a bus address.
func (t Translator) ToHost(bus uint32) uint32 {
	return bus - t.offset
}

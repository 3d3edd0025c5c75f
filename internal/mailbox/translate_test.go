package mailbox

import "testing"

func TestTranslateRoundTrip(t *testing.T) {
	x := NewTranslator(DefaultBusOffset)
	for _, host := range []uint32{0x0, 0x100000, 0x1FF8, 0x3B3FFFF0} {
		bus := x.ToBus(host)
		if got := x.ToHost(bus); got != host {
			t.Fatalf("round trip host=0x%08X got=0x%08X", host, got)
		}
	}
}

func TestTranslateIsAdditive(t *testing.T) {
	x := NewTranslator(DefaultBusOffset)
	if got := x.ToBus(0x100000); got != 0xC0100000 {
		t.Fatalf("bus addr got=0x%08X want=0xC0100000", got)
	}
	// Equal spacing on both sides of the translation.
	if x.ToBus(0x2000)-x.ToBus(0x1000) != 0x1000 {
		t.Fatalf("translation is not a pure offset")
	}
}

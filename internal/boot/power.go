package boot

// PowerState is the device power state a transition is coming from.
type PowerState int

const (
	PowerStateUnknown PowerState = iota
	// PowerStateOn: device was already running; not a boot.
	PowerStateOn
	// PowerStateIdle: light sleep resume.
	PowerStateIdle
	// PowerStateSuspend: system suspend resume.
	PowerStateSuspend
	// PowerStateOff: first transition out of powered-off, the cold boot.
	PowerStateOff
)

func (s PowerState) String() string {
	switch s {
	case PowerStateOn:
		return "on"
	case PowerStateIdle:
		return "idle"
	case PowerStateSuspend:
		return "suspend"
	case PowerStateOff:
		return "off"
	default:
		return "unknown"
	}
}

// ColdBoot reports whether a transition from this state is the one-time
// first boot.
func (s PowerState) ColdBoot() bool {
	return s == PowerStateOff
}

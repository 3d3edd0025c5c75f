package mailbox

import "errors"

var (
	// ErrAllocationFailed means no request buffer could be obtained; no
	// register traffic happened.
	ErrAllocationFailed = errors.New("mailbox: request buffer allocation failed")

	// ErrTimeout means the firmware never echoed the submitted address
	// within the poll budget.
	ErrTimeout = errors.New("mailbox: no completion within poll budget")

	// ErrRejected means the firmware echoed the address but did not flag
	// the request successful. Never retried: the firmware does not
	// re-deliver on the same handshake.
	ErrRejected = errors.New("mailbox: firmware rejected request")
)

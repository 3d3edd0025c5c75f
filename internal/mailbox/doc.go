// Package mailbox owns the doorbell protocol against the VideoCore firmware.
//
// Ownership boundary:
// - channel encoding in the low bits of transferred addresses
// - host-physical to bus address translation
// - register access primitives (submit, single poll sample)
// - the submit/poll/validate engine and its terminal outcomes
package mailbox

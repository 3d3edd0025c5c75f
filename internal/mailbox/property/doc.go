// Package property owns the property request buffer wire format.
//
// Ownership boundary:
// - fixed buffer header (total size, request/response code)
// - tagged property blocks and the terminating end tag
// - response validation and typed value extraction
package property

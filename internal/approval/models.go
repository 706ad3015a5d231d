package approval

import (
	"didwallet/internal/pending"
)

// State names the terminal result of an approval run. Intermediate progress
// is visible through the audit trail, not the outcome.
type State string

const (
	StateApproved           State = "approved"
	StateRejected           State = "rejected"
	StateExpired            State = "expired"
	StateSurfaceUnavailable State = "surface_unavailable"
)

// Decision is the holder's verdict for a presented request. The request is
// carried back because issuance and save entries are single-delivery: the
// surface holds the only copy once it has read them.
type Decision struct {
	Request  pending.Request
	Approved bool
	// Address is the account the holder chose to share (address kind only).
	// Empty means the session's active account.
	Address string
	Reason  string
}

// Outcome is the terminal result delivered back to the original caller.
// Err carries the domain-coded failure for rejection-shaped results.
type Outcome struct {
	State   State
	Address string
	Err     error
}

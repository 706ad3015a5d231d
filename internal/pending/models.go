package pending

import (
	"time"

	"didwallet/internal/credential"
)

// Kind discriminates the pending request union. At most one request per kind
// is addressable at a time; a newer submission supersedes the stored one.
type Kind string

const (
	KindAddress  Kind = "address"
	KindIssuance Kind = "issuance"
	KindSave     Kind = "save"
)

// Valid reports whether k is one of the three request kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAddress, KindIssuance, KindSave:
		return true
	}
	return false
}

// Request is an in-flight approval request, persisted so it survives the
// privileged surface being closed and reopened. The duplicate flag is
// computed when the request is stored, not when it is resolved.
type Request struct {
	Kind      Kind      `json:"kind"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"createdAt"`

	// Issuance and save requests carry the credential under review.
	Credential credential.Credential `json:"vc,omitempty"`
	// Issuance requests may carry the subject context shown to the holder.
	SubjectContext map[string]any `json:"subjectContext,omitempty"`

	IsDuplicate bool   `json:"isDuplicate,omitempty"`
	DuplicateID string `json:"duplicateId,omitempty"`
	// Save requests also carry the conflicting stored credential so the
	// surface can render the comparison.
	DuplicateOf credential.Credential `json:"duplicateVC,omitempty"`
}

package wire

// Package wire hosts the stable, minimal message shapes crossing the
// page/wallet boundary. Keep these PII-light and versioned independently from
// any internal wallet schemas or persistence models.

import "encoding/json"

// ContractVersion identifies the contract schema version for compatibility checks.
// Bump on breaking changes to the shapes below; consumers can pin or roll forward.
const ContractVersion = "v0.1.0"

// Message type identifiers.
const (
	TypePing            = "PING"
	TypeDetected        = "DETECTED"
	TypeRequestAddress  = "REQUEST_ADDRESS"
	TypeRequestIssuance = "REQUEST_ISSUANCE"
	TypeSaveVC          = "SAVE_VC"
	TypeDeleteVC        = "DELETE_VC"
)

// Envelope is the inbound message from an untrusted page. The origin field is
// informational only: the mediator attaches the transport-level origin and
// ignores anything the page claims.
type Envelope struct {
	Type           string          `json:"type"`
	Origin         string          `json:"origin,omitempty"`
	VC             json.RawMessage `json:"vc,omitempty"`
	SubjectContext map[string]any  `json:"subjectContext,omitempty"`
	VCID           string          `json:"vcId,omitempty"`
}

// Detected answers a liveness probe so pages can tell "not installed" apart
// from "not yet responded".
type Detected struct {
	Type string `json:"type"`
}

// AddressResponse answers REQUEST_ADDRESS.
type AddressResponse struct {
	Success bool   `json:"success"`
	Address string `json:"address,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IssuanceResponse answers REQUEST_ISSUANCE.
type IssuanceResponse struct {
	Approved bool   `json:"approved"`
	Error    string `json:"error,omitempty"`
}

// SaveResponse answers SAVE_VC and DELETE_VC.
type SaveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

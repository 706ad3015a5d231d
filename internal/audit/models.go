package audit

import "time"

// Event is emitted from approval logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time
	Origin       string
	RequestKind  string
	Action       string
	Decision     string
	Reason       string
	CredentialID string
}

// Audit event actions
const (
	ActionRequestSubmitted   = "request_submitted"
	ActionRequestPresented   = "request_presented"
	ActionRequestResolved    = "request_resolved"
	ActionCredentialSaved    = "credential_saved"
	ActionCredentialReplaced = "credential_replaced"
	ActionCredentialDeleted  = "credential_deleted"
)

// Audit event decisions
const (
	DecisionApproved           = "approved"
	DecisionRejected           = "rejected"
	DecisionTimedOut           = "timed_out"
	DecisionSurfaceUnavailable = "surface_unavailable"
)

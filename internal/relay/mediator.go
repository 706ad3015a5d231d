package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"didwallet/contracts/wire"
	"didwallet/internal/approval"
	"didwallet/internal/credential"
	"didwallet/internal/pending"
	pkgerrors "didwallet/pkg/domain-errors"
)

// Approver is the approval surface the mediator drives. Submit blocks until
// the request reaches a terminal outcome.
type Approver interface {
	Submit(ctx context.Context, req pending.Request) approval.Outcome
	Delete(ctx context.Context, id string) error
}

// Mediator sits between untrusted page connections and the approval service.
// It stamps every request with the transport-level origin; an origin claimed
// inside the message body is ignored.
type Mediator struct {
	approver Approver
	logger   *slog.Logger
	pings    singleflight.Group
}

// MediatorOption configures the Mediator.
type MediatorOption func(*Mediator)

// WithMediatorLogger sets the logger.
func WithMediatorLogger(logger *slog.Logger) MediatorOption {
	return func(m *Mediator) {
		m.logger = logger
	}
}

func NewMediator(approver Approver, opts ...MediatorOption) *Mediator {
	m := &Mediator{approver: approver, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dispatch routes one envelope from the given origin and returns the
// response payload. The response type depends on the message type; unknown
// types yield an error for the transport to drop the message on.
func (m *Mediator) Dispatch(ctx context.Context, origin string, env wire.Envelope) (any, error) {
	if origin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "connection has no origin")
	}

	switch env.Type {
	case wire.TypePing:
		// Concurrent liveness probes from one origin collapse into a single
		// response.
		resp, _, _ := m.pings.Do(origin, func() (any, error) {
			return wire.Detected{Type: wire.TypeDetected}, nil
		})
		return resp, nil

	case wire.TypeRequestAddress:
		return m.requestAddress(ctx, origin), nil

	case wire.TypeRequestIssuance:
		return m.requestIssuance(ctx, origin, env), nil

	case wire.TypeSaveVC:
		return m.saveCredential(ctx, origin, env), nil

	case wire.TypeDeleteVC:
		return m.deleteCredential(ctx, origin, env), nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown message type")
	}
}

func (m *Mediator) requestAddress(ctx context.Context, origin string) wire.AddressResponse {
	outcome := m.approver.Submit(ctx, pending.Request{
		Kind:   pending.KindAddress,
		Origin: origin,
	})
	if outcome.State != approval.StateApproved {
		return wire.AddressResponse{Error: pageError(outcome.Err)}
	}
	return wire.AddressResponse{Success: true, Address: outcome.Address}
}

func (m *Mediator) requestIssuance(ctx context.Context, origin string, env wire.Envelope) wire.IssuanceResponse {
	vc, err := decodeCredential(env.VC)
	if err != nil {
		return wire.IssuanceResponse{Error: pageError(err)}
	}
	outcome := m.approver.Submit(ctx, pending.Request{
		Kind:           pending.KindIssuance,
		Origin:         origin,
		Credential:     vc,
		SubjectContext: env.SubjectContext,
	})
	if outcome.State != approval.StateApproved {
		return wire.IssuanceResponse{Error: pageError(outcome.Err)}
	}
	return wire.IssuanceResponse{Approved: true}
}

func (m *Mediator) saveCredential(ctx context.Context, origin string, env wire.Envelope) wire.SaveResponse {
	vc, err := decodeCredential(env.VC)
	if err != nil {
		return wire.SaveResponse{Error: pageError(err)}
	}
	outcome := m.approver.Submit(ctx, pending.Request{
		Kind:       pending.KindSave,
		Origin:     origin,
		Credential: vc,
	})
	if outcome.State != approval.StateApproved {
		return wire.SaveResponse{Error: pageError(outcome.Err)}
	}
	return wire.SaveResponse{Success: true}
}

func (m *Mediator) deleteCredential(ctx context.Context, origin string, env wire.Envelope) wire.SaveResponse {
	if env.VCID == "" {
		return wire.SaveResponse{Error: "credential id required"}
	}
	if err := m.approver.Delete(ctx, env.VCID); err != nil {
		m.logger.Warn("credential deletion failed", "origin", origin, "id", env.VCID, "error", err)
		return wire.SaveResponse{Error: pageError(err)}
	}
	return wire.SaveResponse{Success: true}
}

func decodeCredential(raw json.RawMessage) (credential.Credential, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message carries no credential")
	}
	vc, err := credential.ParseCredential(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeValidation, "malformed credential")
	}
	return vc, nil
}

// pageError converts a domain failure into the string a page sees. Internal
// details never cross the boundary; the timeout shape is stable because pages
// match on it.
func pageError(err error) string {
	if err == nil {
		return "request was not approved"
	}
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeTimeout:
		return "timeout"
	case pkgerrors.CodeInternal:
		return "internal error"
	default:
		return err.Error()
	}
}

package approval

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"didwallet/internal/approval/metrics"
	"didwallet/internal/audit"
	"didwallet/internal/credential"
	"didwallet/internal/pending"
	"didwallet/internal/platform/tracer"
	pkgerrors "didwallet/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// CredentialStore is the slice of the credential collection the approval flow
// needs. Mutation happens only from the Approved transition.
type CredentialStore interface {
	List(ctx context.Context) ([]credential.Credential, error)
	Save(ctx context.Context, vc credential.Credential, origin string) (credential.Credential, bool, error)
	Delete(ctx context.Context, id string) error
}

// PendingStore persists in-flight requests across privileged-surface restarts.
type PendingStore interface {
	Put(ctx context.Context, req pending.Request) error
	TakeIfFresh(ctx context.Context, kind pending.Kind) (*pending.Request, error)
	Clear(ctx context.Context, kind pending.Kind) error
}

// Verifier re-checks a credential's integrity before it may enter the store.
type Verifier interface {
	Verify(vc credential.Credential, walletAddress string) (*credential.VerificationResult, error)
}

// Surface activates the privileged surface so the holder can decide.
type Surface interface {
	Activate(ctx context.Context) error
}

// AddressProvider exposes the session's active account.
type AddressProvider interface {
	Address() string
}

const defaultDecisionTimeout = 30 * time.Second

// Service drives a request from submission through privileged-surface
// presentation to a terminal outcome. Submit blocks the caller (the relay
// side) until the holder decides or the caller-side timer fires; whichever
// happens first wins and the loser's effect is discarded.
type Service struct {
	pendingStore PendingStore
	creds        CredentialStore
	verifier     Verifier
	surface      Surface
	session      AddressProvider
	auditor      *audit.Publisher
	logger       *slog.Logger

	metrics *metrics.Metrics
	tracer  tracer.Tracer
	timeout time.Duration

	mu      sync.Mutex
	waiters map[pending.Kind]chan Outcome
}

// Option configures the Service.
type Option func(*Service)

// WithDecisionTimeout configures the caller-side wait for a holder decision.
// If not set or non-positive, defaults to 30 seconds.
func WithDecisionTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for approval spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(pendingStore PendingStore, creds CredentialStore, verifier Verifier,
	surface Surface, session AddressProvider, auditor *audit.Publisher, opts ...Option) *Service {
	svc := &Service{
		pendingStore: pendingStore,
		creds:        creds,
		verifier:     verifier,
		surface:      surface,
		session:      session,
		auditor:      auditor,
		logger:       slog.Default(),
		tracer:       tracer.Noop(),
		timeout:      defaultDecisionTimeout,
		waiters:      make(map[pending.Kind]chan Outcome),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Submit runs a request through the full lifecycle and returns its terminal
// outcome. It never returns a bare error: failures come back as
// rejection-shaped outcomes so the relay boundary stays uniform.
func (s *Service) Submit(ctx context.Context, req pending.Request) Outcome {
	ctx, span := s.tracer.Start(ctx, "approval.submit",
		tracer.String("kind", string(req.Kind)),
		tracer.String("origin", req.Origin),
	)
	outcome := s.submit(ctx, req)
	span.SetAttributes(tracer.String("state", string(outcome.State)))
	span.End(outcome.Err)
	return outcome
}

func (s *Service) submit(ctx context.Context, req pending.Request) Outcome {
	if req.Origin == "" {
		return s.failed(req.Kind, pkgerrors.New(pkgerrors.CodeValidation, "request origin required"))
	}
	if !req.Kind.Valid() {
		return s.failed(req.Kind, pkgerrors.New(pkgerrors.CodeValidation, "unknown request kind"))
	}
	if (req.Kind == pending.KindIssuance || req.Kind == pending.KindSave) && req.Credential == nil {
		return s.failed(req.Kind, pkgerrors.New(pkgerrors.CodeValidation, "request carries no credential"))
	}

	if s.metrics != nil {
		s.metrics.IncrementSubmitted(string(req.Kind))
	}

	// The duplicate flag is computed now, at creation: the surface renders it
	// without re-reading the store, and the store may change before the
	// holder decides.
	if req.Kind == pending.KindIssuance || req.Kind == pending.KindSave {
		stored, err := s.creds.List(ctx)
		if err != nil {
			return s.failed(req.Kind, err)
		}
		if dup := credential.FindDuplicate(req.Credential, stored); dup != nil {
			req.IsDuplicate = true
			req.DuplicateID = dup.ID()
			if req.Kind == pending.KindSave {
				req.DuplicateOf = dup
			}
		}
	}

	waiter := s.registerWaiter(req.Kind)
	if err := s.pendingStore.Put(ctx, req); err != nil {
		s.takeWaiter(req.Kind)
		return s.failed(req.Kind, err)
	}

	s.emitAudit(ctx, req, audit.ActionRequestSubmitted, "", "")

	start := time.Now()
	if err := s.surface.Activate(ctx); err != nil {
		s.takeWaiter(req.Kind)
		_ = s.pendingStore.Clear(ctx, req.Kind)
		failure := pkgerrors.Wrap(err, pkgerrors.CodeSurfaceUnavailable, "wallet surface could not be opened")
		s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionSurfaceUnavailable, failure.Error())
		s.countOutcome(req.Kind, StateSurfaceUnavailable)
		return Outcome{State: StateSurfaceUnavailable, Err: failure}
	}

	select {
	case outcome := <-waiter:
		if s.metrics != nil {
			s.metrics.ObserveDecisionLatency(time.Since(start).Seconds())
		}
		s.countOutcome(req.Kind, outcome.State)
		return outcome
	case <-time.After(s.timeout):
	case <-ctx.Done():
	}

	// Timer won: stop waiting for the holder and drop the stale entry so a
	// reopened surface does not present a request nobody is waiting on.
	s.takeWaiter(req.Kind)
	_ = s.pendingStore.Clear(ctx, req.Kind)
	failure := pkgerrors.New(pkgerrors.CodeTimeout, "timeout")
	s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionTimedOut, "no decision within timeout")
	s.countOutcome(req.Kind, StateExpired)
	return Outcome{State: StateExpired, Err: failure}
}

// SurfaceReady is called when the privileged surface starts. It drains every
// fresh pending request for presentation; stale entries are dropped by the
// store. Reopening the surface with an undecided address request re-presents
// the same request rather than creating a new one.
func (s *Service) SurfaceReady(ctx context.Context) ([]pending.Request, error) {
	var presented []pending.Request
	for _, kind := range []pending.Kind{pending.KindIssuance, pending.KindSave, pending.KindAddress} {
		req, err := s.pendingStore.TakeIfFresh(ctx, kind)
		if err != nil {
			return nil, err
		}
		if req == nil {
			continue
		}
		s.emitAudit(ctx, *req, audit.ActionRequestPresented, "", "")
		presented = append(presented, *req)
	}
	return presented, nil
}

// Decide resolves a presented request with the holder's verdict. If the
// caller-side timer already fired, the decision's effect is discarded: in
// particular the store is not mutated.
func (s *Service) Decide(ctx context.Context, d Decision) error {
	if !d.Request.Kind.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown request kind")
	}

	waiter, ok := s.takeWaiter(d.Request.Kind)
	if !ok {
		s.logger.Info("decision arrived after caller stopped waiting",
			"kind", d.Request.Kind,
			"origin", d.Request.Origin,
		)
		return nil
	}

	outcome := s.resolve(ctx, d)
	waiter <- outcome
	return nil
}

func (s *Service) resolve(ctx context.Context, d Decision) Outcome {
	req := d.Request

	if !d.Approved {
		reason := d.Reason
		if reason == "" {
			reason = "the holder rejected the request"
		}
		// A rejection is still a response: drop the address slot so a
		// reopened surface does not re-present an answered request.
		if req.Kind == pending.KindAddress {
			s.clearAddressSlot(ctx)
		}
		s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionRejected, reason)
		return Outcome{State: StateRejected, Err: pkgerrors.New(pkgerrors.CodeRejected, reason)}
	}

	switch req.Kind {
	case pending.KindAddress:
		address := d.Address
		if address == "" {
			address = s.session.Address()
		}
		if address == "" {
			err := pkgerrors.New(pkgerrors.CodeLocked, "wallet is locked")
			s.clearAddressSlot(ctx)
			s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionRejected, err.Error())
			return Outcome{State: StateRejected, Err: err}
		}
		s.clearAddressSlot(ctx)
		s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionApproved, "")
		return Outcome{State: StateApproved, Address: address}

	case pending.KindIssuance, pending.KindSave:
		if err := s.acceptCredential(ctx, req); err != nil {
			// An approved decision with a failed integrity check becomes a
			// failure result; the store stays untouched.
			s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionRejected, err.Error())
			return Outcome{State: StateRejected, Err: err}
		}
		s.emitAudit(ctx, req, audit.ActionRequestResolved, audit.DecisionApproved, "")
		return Outcome{State: StateApproved}

	default:
		return Outcome{State: StateRejected, Err: pkgerrors.New(pkgerrors.CodeValidation, "unknown request kind")}
	}
}

func (s *Service) acceptCredential(ctx context.Context, req pending.Request) error {
	// An empty session address (locked wallet) skips the ownership binding
	// but never the integrity recomputation.
	if _, err := s.verifier.Verify(req.Credential, s.session.Address()); err != nil {
		return err
	}

	saved, overwrote, err := s.creds.Save(ctx, req.Credential, req.Origin)
	if err != nil {
		return err
	}

	action := audit.ActionCredentialSaved
	if overwrote {
		action = audit.ActionCredentialReplaced
		if s.metrics != nil {
			s.metrics.DuplicateOverwrites.Inc()
		}
	}
	s.emitAudit(ctx, req, action, audit.DecisionApproved, "")
	s.refreshStoredGauge(ctx)

	s.logger.Info("credential accepted",
		"id", saved.ID(),
		"type", saved.PrimaryType(),
		"origin", req.Origin,
		"overwrote", overwrote,
	)
	return nil
}

// Delete removes a stored credential by explicit holder action.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "credential id required")
	}
	if err := s.creds.Delete(ctx, id); err != nil {
		return err
	}
	if s.auditor != nil {
		event := audit.Event{Action: audit.ActionCredentialDeleted, CredentialID: id}
		if err := s.auditor.Emit(ctx, event); err != nil {
			s.logger.Error("failed to emit audit event", "error", err, "action", audit.ActionCredentialDeleted)
		}
	}
	s.refreshStoredGauge(ctx)
	return nil
}

// Credentials lists the stored collection for the privileged surface.
func (s *Service) Credentials(ctx context.Context) ([]credential.Credential, error) {
	return s.creds.List(ctx)
}

// clearAddressSlot drops the stored address request once a terminal response
// is on its way to the page. The slot survives presentation reads, so every
// response path must clear it explicitly.
func (s *Service) clearAddressSlot(ctx context.Context) {
	if err := s.pendingStore.Clear(ctx, pending.KindAddress); err != nil {
		s.logger.Error("failed to clear address request", "error", err)
	}
}

func (s *Service) registerWaiter(kind pending.Kind) chan Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer submission of the same kind supersedes the old one; the
	// superseded caller runs out its timer.
	ch := make(chan Outcome, 1)
	s.waiters[kind] = ch
	return ch
}

func (s *Service) takeWaiter(kind pending.Kind) (chan Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.waiters[kind]
	if ok {
		delete(s.waiters, kind)
	}
	return ch, ok
}

func (s *Service) failed(kind pending.Kind, err error) Outcome {
	s.countOutcome(kind, StateRejected)
	return Outcome{State: StateRejected, Err: err}
}

func (s *Service) countOutcome(kind pending.Kind, state State) {
	if s.metrics != nil {
		s.metrics.IncrementOutcome(string(kind), string(state))
	}
}

func (s *Service) refreshStoredGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if vcs, err := s.creds.List(ctx); err == nil {
		s.metrics.SetStoredCredentials(len(vcs))
	}
}

func (s *Service) emitAudit(ctx context.Context, req pending.Request, action, decision, reason string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Origin:      req.Origin,
		RequestKind: string(req.Kind),
		Action:      action,
		Decision:    decision,
		Reason:      reason,
	}
	if req.Credential != nil {
		event.CredentialID = req.Credential.ID()
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit audit event", "error", err, "action", action)
	}
}

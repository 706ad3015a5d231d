package pending

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"didwallet/internal/platform/storage"
	pkgerrors "didwallet/pkg/domain-errors"
)

// DefaultTTL is the staleness window: a request older than this is expired
// and must never be presented.
const DefaultTTL = 5 * time.Minute

// Storage keys, one slot per kind. Overwrite-on-put gives last-write-wins
// within a kind.
var storageKeys = map[Kind]string{
	KindAddress:  "pendingAddressRequest",
	KindIssuance: "pendingVCIssuance",
	KindSave:     "pendingVCSave",
}

// Store persists in-flight approval requests in the durable key-value
// collaborator. Durability is the point: the privileged surface may not exist
// yet when a request arrives, so the request must outlive its creator's
// context until the surface launches and reads it.
type Store struct {
	kv  storage.Store
	ttl time.Duration
	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithTTL overrides the staleness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects a clock for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs a pending request store.
func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{kv: kv, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a request under its kind's slot, stamping the current time and
// overwriting any unresolved predecessor of the same kind.
func (s *Store) Put(ctx context.Context, req Request) error {
	if !req.Kind.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown pending request kind")
	}
	req.CreatedAt = s.now()
	raw, err := json.Marshal(req)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to encode pending request")
	}
	if err := s.kv.Set(ctx, storageKeys[req.Kind], raw); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to persist pending request")
	}
	return nil
}

// TakeIfFresh reads the entry for a kind. A stale entry is deleted and nil is
// returned. Fresh issuance and save entries are cleared on read (single
// delivery); the address entry stays until Clear is called explicitly by the
// response path.
func (s *Store) TakeIfFresh(ctx context.Context, kind Kind) (*Request, error) {
	if !kind.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown pending request kind")
	}
	raw, err := s.kv.Get(ctx, storageKeys[kind])
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to read pending request")
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		// Unreadable entries are dropped rather than presented.
		_ = s.kv.Remove(ctx, storageKeys[kind])
		return nil, nil
	}

	if s.now().Sub(req.CreatedAt) >= s.ttl {
		if err := s.Clear(ctx, kind); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if kind == KindIssuance || kind == KindSave {
		if err := s.Clear(ctx, kind); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// Clear removes the entry for a kind.
func (s *Store) Clear(ctx context.Context, kind Kind) error {
	if err := s.kv.Remove(ctx, storageKeys[kind]); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to clear pending request")
	}
	return nil
}

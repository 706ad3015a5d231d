package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"didwallet/internal/credential"
	"didwallet/internal/platform/storage"
	pkgerrors "didwallet/pkg/domain-errors"
)

// savedCredentialsKey matches the storage key the wallet has always used for
// its accepted credentials.
const savedCredentialsKey = "saved_vcs"

// KVStore persists the credential collection as a single JSON array in the
// durable key-value collaborator.
type KVStore struct {
	kv  storage.Store
	now func() time.Time
}

// Option configures the KVStore.
type Option func(*KVStore)

// WithClock injects a clock for deterministic save timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *KVStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewKVStore constructs a credential store over the given key-value surface.
func NewKVStore(kv storage.Store, opts ...Option) *KVStore {
	s := &KVStore{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *KVStore) List(ctx context.Context) ([]credential.Credential, error) {
	raw, err := s.kv.Get(ctx, savedCredentialsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to read credential collection")
	}
	var vcs []credential.Credential
	if err := json.Unmarshal(raw, &vcs); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "corrupt credential collection")
	}
	return vcs, nil
}

func (s *KVStore) Save(ctx context.Context, vc credential.Credential, origin string) (credential.Credential, bool, error) {
	vcs, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	saved := vc.Clone()
	saved["savedAt"] = now
	saved["origin"] = origin

	overwrote := false
	if existing := credential.FindDuplicate(vc, vcs); existing != nil {
		// Same logical grant: keep the bookkeeping id stable and remember
		// when the superseded copy was saved.
		saved.SetID(existing.ID())
		if prev := existing.SavedAt(); prev != "" {
			saved["previousSavedAt"] = prev
		}
		for i, stored := range vcs {
			if stored.ID() == existing.ID() {
				vcs[i] = saved
				break
			}
		}
		overwrote = true
	} else {
		saved.SetID(uuid.NewString())
		vcs = append(vcs, saved)
	}

	if err := s.write(ctx, vcs); err != nil {
		return nil, false, err
	}
	return saved, overwrote, nil
}

func (s *KVStore) Delete(ctx context.Context, id string) error {
	vcs, err := s.List(ctx)
	if err != nil {
		return err
	}
	kept := vcs[:0]
	found := false
	for _, vc := range vcs {
		if vc.ID() == id {
			found = true
			continue
		}
		kept = append(kept, vc)
	}
	if !found {
		return ErrNotFound
	}
	return s.write(ctx, kept)
}

func (s *KVStore) write(ctx context.Context, vcs []credential.Credential) error {
	if vcs == nil {
		vcs = []credential.Credential{}
	}
	raw, err := json.Marshal(vcs)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to encode credential collection")
	}
	if err := s.kv.Set(ctx, savedCredentialsKey, raw); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to persist credential collection")
	}
	return nil
}

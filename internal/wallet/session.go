package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"didwallet/internal/platform/storage"
	pkgerrors "didwallet/pkg/domain-errors"
)

// keystoreStateKey matches the storage key the wallet has always used for its
// encrypted keystore state.
const keystoreStateKey = "wallet.state.v1"

// storedState is the durable portion of the wallet state. The decrypted
// secret never touches storage.
type storedState struct {
	Keystore     json.RawMessage `json:"keystoreJson,omitempty"`
	Address      string          `json:"address,omitempty"`
	AccountIndex uint32          `json:"accountIndex"`
}

// Session holds the unlocked wallet state. The secret material lives only in
// memory and is discarded on lock; an idle timer locks the session when no
// activity arrives.
type Session struct {
	kv      storage.Store
	keyring Keyring
	logger  *slog.Logger

	mu      sync.Mutex
	secret  SecretMaterial
	address string
	lock    *LockTimer
}

// SessionOption configures the Session.
type SessionOption func(*Session)

// WithIdleLock arms an idle auto-lock timer with the given window.
func WithIdleLock(idle time.Duration) SessionOption {
	return func(s *Session) {
		s.lock = NewLockTimer(idle, s.Lock)
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession constructs a locked session over the durable store.
func NewSession(kv storage.Store, keyring Keyring, opts ...SessionOption) *Session {
	s := &Session{kv: kv, keyring: keyring, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize creates fresh key material, encrypts it under the password, and
// persists the keystore. Fails if a keystore already exists.
func (s *Session) Initialize(ctx context.Context, password string) (string, error) {
	if _, err := s.kv.Get(ctx, keystoreStateKey); err == nil {
		return "", pkgerrors.New(pkgerrors.CodeInvariantViolation, "keystore already exists")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to read wallet state")
	}

	secret, err := s.keyring.CreateRandomKeypair()
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to create key material")
	}
	blob, err := s.keyring.EncryptWithPassword(secret, password)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to encrypt keystore")
	}
	address, err := s.keyring.DeriveChild(secret, 0)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to derive account")
	}

	if err := s.writeState(ctx, storedState{Keystore: blob, Address: address}); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.secret = secret
	s.address = address
	s.mu.Unlock()
	s.Activity()
	return address, nil
}

// Unlock decrypts the keystore and re-derives the active account address.
func (s *Session) Unlock(ctx context.Context, password string) (string, error) {
	state, err := s.readState(ctx)
	if err != nil {
		return "", err
	}
	if len(state.Keystore) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "keystore not found")
	}

	secret, err := s.keyring.DecryptWithPassword(state.Keystore, password)
	if err != nil {
		return "", err
	}
	address, err := s.keyring.DeriveChild(secret, state.AccountIndex)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to derive account")
	}

	s.mu.Lock()
	s.secret = secret
	s.address = address
	s.mu.Unlock()
	s.Activity()

	s.logger.Info("wallet unlocked", "address", address)
	return address, nil
}

// Lock discards the in-memory secret. Storage is untouched.
func (s *Session) Lock() {
	s.mu.Lock()
	wasUnlocked := s.secret != nil
	s.secret = nil
	s.address = ""
	s.mu.Unlock()
	if s.lock != nil {
		s.lock.Cancel()
	}
	if wasUnlocked {
		s.logger.Info("wallet locked")
	}
}

// Unlocked reports whether secret material is resident.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secret != nil
}

// Address returns the active account address, empty while locked.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// Activity records a user activity event, re-arming the idle lock.
func (s *Session) Activity() {
	if s.lock != nil && s.Unlocked() {
		s.lock.Reset()
	}
}

// SwitchAccount re-derives the address at the given child index and persists
// the selection.
func (s *Session) SwitchAccount(ctx context.Context, index uint32) (string, error) {
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()
	if secret == nil {
		return "", pkgerrors.New(pkgerrors.CodeLocked, "wallet is locked")
	}

	address, err := s.keyring.DeriveChild(secret, index)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to derive account")
	}

	state, err := s.readState(ctx)
	if err != nil {
		return "", err
	}
	state.AccountIndex = index
	state.Address = address
	if err := s.writeState(ctx, *state); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.address = address
	s.mu.Unlock()
	s.Activity()
	return address, nil
}

func (s *Session) readState(ctx context.Context) (*storedState, error) {
	raw, err := s.kv.Get(ctx, keystoreStateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return &storedState{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to read wallet state")
	}
	var state storedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "corrupt wallet state")
	}
	return &state, nil
}

func (s *Session) writeState(ctx context.Context, state storedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to encode wallet state")
	}
	if err := s.kv.Set(ctx, keystoreStateKey, raw); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to persist wallet state")
	}
	return nil
}

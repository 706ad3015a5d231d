package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"didwallet/internal/platform/storage"
	dErrors "didwallet/pkg/domain-errors"
)

type SessionSuite struct {
	suite.Suite
	kv      *storage.InMemoryStore
	session *Session
}

func (s *SessionSuite) SetupTest() {
	s.kv = storage.NewInMemoryStore()
	s.session = NewSession(s.kv, NewKeyring())
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) TestInitializeUnlockLock() {
	address, err := s.session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)
	s.NotEmpty(address)
	s.True(s.session.Unlocked())
	s.Equal(address, s.session.Address())

	s.session.Lock()
	s.False(s.session.Unlocked())
	s.Empty(s.session.Address())

	// A fresh session over the same storage unlocks to the same account.
	reopened := NewSession(s.kv, NewKeyring())
	got, err := reopened.Unlock(context.Background(), "pw")
	s.Require().NoError(err)
	s.Equal(address, got)
}

func (s *SessionSuite) TestInitialize_RefusesExistingKeystore() {
	_, err := s.session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)

	_, err = s.session.Initialize(context.Background(), "other")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *SessionSuite) TestUnlock_WrongPassword() {
	_, err := s.session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)
	s.session.Lock()

	_, err = s.session.Unlock(context.Background(), "wrong")
	s.Require().Error(err)
	s.False(s.session.Unlocked())
}

func (s *SessionSuite) TestUnlock_NoKeystore() {
	_, err := s.session.Unlock(context.Background(), "pw")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *SessionSuite) TestSwitchAccount() {
	first, err := s.session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)

	second, err := s.session.SwitchAccount(context.Background(), 1)
	s.Require().NoError(err)
	s.NotEqual(first, second)
	s.Equal(second, s.session.Address())

	// The selection is durable: unlocking again lands on the chosen account.
	s.session.Lock()
	got, err := s.session.Unlock(context.Background(), "pw")
	s.Require().NoError(err)
	s.Equal(second, got)
}

func (s *SessionSuite) TestSwitchAccount_WhileLocked() {
	_, err := s.session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)
	s.session.Lock()

	_, err = s.session.SwitchAccount(context.Background(), 1)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeLocked))
}

func (s *SessionSuite) TestIdleLock() {
	session := NewSession(s.kv, NewKeyring(), WithIdleLock(30*time.Millisecond))
	_, err := session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)
	s.True(session.Unlocked())

	s.Eventually(func() bool { return !session.Unlocked() }, time.Second, 5*time.Millisecond,
		"idle timer should lock the session")
}

func (s *SessionSuite) TestIdleLock_ActivityRearms() {
	session := NewSession(s.kv, NewKeyring(), WithIdleLock(60*time.Millisecond))
	_, err := session.Initialize(context.Background(), "pw")
	s.Require().NoError(err)

	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		session.Activity()
	}
	s.True(session.Unlocked(), "activity must keep the session unlocked")
}

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	credstore "didwallet/internal/credential/store"
	"didwallet/internal/platform/storage"
	dErrors "didwallet/pkg/domain-errors"
	"didwallet/pkg/testutil"
)

type KVStoreSuite struct {
	suite.Suite
	store *credstore.KVStore
	clock time.Time
}

func (s *KVStoreSuite) SetupTest() {
	s.clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = credstore.NewKVStore(storage.NewInMemoryStore(),
		credstore.WithClock(func() time.Time { return s.clock }),
	)
}

func TestKVStoreSuite(t *testing.T) {
	suite.Run(t, new(KVStoreSuite))
}

func (s *KVStoreSuite) TestSave_AssignsBookkeeping() {
	saved, overwrote, err := s.store.Save(context.Background(), testutil.SignedCredential(testutil.WalletAddress), "https://issuer.example")
	s.Require().NoError(err)
	s.False(overwrote)
	s.NotEmpty(saved.ID())
	s.Equal("2024-03-01T12:00:00Z", saved.SavedAt())
	s.Equal("https://issuer.example", saved.Origin())

	vcs, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(vcs, 1)
	s.Equal(saved.ID(), vcs[0].ID())
}

func (s *KVStoreSuite) TestSave_DuplicateOverwritesInPlace() {
	first, _, err := s.store.Save(context.Background(), testutil.SignedCredential(testutil.WalletAddress), "https://issuer.example")
	s.Require().NoError(err)

	s.clock = s.clock.Add(48 * time.Hour)
	second, overwrote, err := s.store.Save(context.Background(), testutil.SignedCredential(testutil.WalletAddress), "https://issuer.example")
	s.Require().NoError(err)

	s.True(overwrote)
	s.Equal(first.ID(), second.ID(), "bookkeeping id must survive re-issuance")
	s.Equal(first.SavedAt(), second["previousSavedAt"])
	s.Equal("2024-03-03T12:00:00Z", second.SavedAt())

	vcs, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Len(vcs, 1, "overwrite must not grow the collection")
}

func (s *KVStoreSuite) TestSave_DistinctCredentialsAppend() {
	_, _, err := s.store.Save(context.Background(), testutil.SignedCredential(testutil.WalletAddress), "o")
	s.Require().NoError(err)

	other := testutil.GraduationCredential(testutil.WalletAddress)
	other["type"] = []any{"VerifiableCredential", "EnrollmentCredential"}
	_, overwrote, err := s.store.Save(context.Background(), other, "o")
	s.Require().NoError(err)
	s.False(overwrote)

	vcs, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Len(vcs, 2)
}

func (s *KVStoreSuite) TestDelete() {
	saved, _, err := s.store.Save(context.Background(), testutil.SignedCredential(testutil.WalletAddress), "o")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(context.Background(), saved.ID()))

	vcs, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(vcs)
}

func (s *KVStoreSuite) TestDelete_UnknownID() {
	err := s.store.Delete(context.Background(), "nope")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *KVStoreSuite) TestList_EmptyStore() {
	vcs, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(vcs)
}

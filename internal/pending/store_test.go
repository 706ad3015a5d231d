package pending_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"didwallet/internal/pending"
	"didwallet/internal/platform/storage"
	dErrors "didwallet/pkg/domain-errors"
	"didwallet/pkg/testutil"
)

type PendingStoreSuite struct {
	suite.Suite
	store *pending.Store
	clock time.Time
}

func (s *PendingStoreSuite) SetupTest() {
	s.clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = pending.NewStore(storage.NewInMemoryStore(),
		pending.WithClock(func() time.Time { return s.clock }),
	)
}

func TestPendingStoreSuite(t *testing.T) {
	suite.Run(t, new(PendingStoreSuite))
}

func (s *PendingStoreSuite) put(kind pending.Kind) {
	req := pending.Request{Kind: kind, Origin: "https://site.example"}
	if kind != pending.KindAddress {
		req.Credential = testutil.SignedCredential(testutil.WalletAddress)
	}
	s.Require().NoError(s.store.Put(context.Background(), req))
}

func (s *PendingStoreSuite) TestPut_StampsCreation() {
	s.put(pending.KindAddress)

	req, err := s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Require().NotNil(req)
	s.True(req.CreatedAt.Equal(s.clock))
	s.Equal("https://site.example", req.Origin)
}

func (s *PendingStoreSuite) TestPut_RejectsUnknownKind() {
	err := s.store.Put(context.Background(), pending.Request{Kind: "bogus"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *PendingStoreSuite) TestTake_SingleDeliveryKinds() {
	for _, kind := range []pending.Kind{pending.KindIssuance, pending.KindSave} {
		s.put(kind)

		first, err := s.store.TakeIfFresh(context.Background(), kind)
		s.Require().NoError(err)
		s.NotNil(first, "first read must deliver the %s entry", kind)

		second, err := s.store.TakeIfFresh(context.Background(), kind)
		s.Require().NoError(err)
		s.Nil(second, "%s entries are cleared on read", kind)
	}
}

func (s *PendingStoreSuite) TestTake_AddressSurvivesRead() {
	s.put(pending.KindAddress)

	first, err := s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Require().NotNil(first)

	// A surface closed and reopened mid-flight re-presents the same request.
	second, err := s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Require().NotNil(second)
	s.Equal(first.Origin, second.Origin)

	s.Require().NoError(s.store.Clear(context.Background(), pending.KindAddress))
	third, err := s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Nil(third)
}

func (s *PendingStoreSuite) TestTake_StalenessBoundary() {
	s.put(pending.KindAddress)

	// One second inside the window: still fresh.
	s.clock = s.clock.Add(pending.DefaultTTL - time.Second)
	req, err := s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.NotNil(req)

	// Exactly at the window: stale, dropped.
	s.clock = s.clock.Add(time.Second)
	req, err = s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Nil(req)

	// And the stale entry is gone even if the clock rolls back.
	s.clock = s.clock.Add(-time.Minute)
	req, err = s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Nil(req)
}

func (s *PendingStoreSuite) TestTake_DropsUnreadableEntry() {
	kv := storage.NewInMemoryStore()
	store := pending.NewStore(kv)
	s.Require().NoError(kv.Set(context.Background(), "pendingVCIssuance", []byte("{not json")))

	req, err := store.TakeIfFresh(context.Background(), pending.KindIssuance)
	s.Require().NoError(err)
	s.Nil(req)

	_, err = kv.Get(context.Background(), "pendingVCIssuance")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *PendingStoreSuite) TestPut_OverwritesSameKind() {
	s.Require().NoError(s.store.Put(context.Background(), pending.Request{Kind: pending.KindAddress, Origin: "https://first.example"}))
	s.Require().NoError(s.store.Put(context.Background(), pending.Request{Kind: pending.KindAddress, Origin: "https://second.example"}))

	req, err := s.store.TakeIfFresh(context.Background(), pending.KindAddress)
	s.Require().NoError(err)
	s.Require().NotNil(req)
	s.Equal("https://second.example", req.Origin)
}

func (s *PendingStoreSuite) TestTake_EmptySlot() {
	req, err := s.store.TakeIfFresh(context.Background(), pending.KindSave)
	s.Require().NoError(err)
	s.Nil(req)
}

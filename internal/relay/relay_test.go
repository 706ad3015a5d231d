package relay_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"didwallet/contracts/wire"
	"didwallet/internal/approval"
	"didwallet/internal/audit"
	credstore "didwallet/internal/credential/store"
	"didwallet/internal/pending"
	"didwallet/internal/platform/storage"
	"didwallet/internal/relay"
	"didwallet/pkg/testutil"
)

// staticAddress is a stub session exposing a fixed active account.
type staticAddress string

func (a staticAddress) Address() string { return string(a) }

// RelaySuite exercises the full page-to-decision round trip over a real
// service stack: in-memory storage, real pending and credential stores, the
// real integrity engine, and a scripted privileged surface.
type RelaySuite struct {
	suite.Suite
	kv       *storage.InMemoryStore
	creds    *credstore.KVStore
	service  *approval.Service
	notifier *relay.SurfaceNotifier
	bus      *relay.Bus
}

func (s *RelaySuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.kv = storage.NewInMemoryStore()
	s.creds = credstore.NewKVStore(s.kv)
	s.notifier = relay.NewSurfaceNotifier()

	s.service = approval.NewService(
		pending.NewStore(s.kv),
		s.creds,
		testutil.NewEngine(),
		s.notifier,
		staticAddress(testutil.WalletAddress),
		audit.NewPublisher(audit.NewInMemoryStore()),
		approval.WithDecisionTimeout(500*time.Millisecond),
		approval.WithLogger(logger),
	)

	mediator := relay.NewMediator(s.service, relay.WithMediatorLogger(logger))
	s.bus = relay.NewBus(mediator, relay.WithBusLogger(logger))
}

func (s *RelaySuite) TearDownTest() {
	s.bus.Close()
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

// runSurface approves or rejects every request the surface is woken for,
// until the returned stop function is called.
func (s *RelaySuite) runSurface(approve bool) func() {
	wake, cancel := s.notifier.Subscribe()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-wake:
				requests, err := s.service.SurfaceReady(context.Background())
				if err != nil {
					continue
				}
				for _, req := range requests {
					_ = s.service.Decide(context.Background(), approval.Decision{
						Request:  req,
						Approved: approve,
						Reason:   "scripted verdict",
					})
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		cancel()
		close(done)
	}
}

func (s *RelaySuite) request(origin string, env wire.Envelope) any {
	conn, err := s.bus.Connect(origin)
	s.Require().NoError(err)
	defer conn.Close()

	payload, err := conn.Request(context.Background(), env)
	s.Require().NoError(err)
	return payload
}

func (s *RelaySuite) TestPing() {
	payload := s.request("https://any.example", wire.Envelope{Type: wire.TypePing})
	detected, ok := payload.(wire.Detected)
	s.Require().True(ok)
	s.Equal(wire.TypeDetected, detected.Type)
}

func (s *RelaySuite) TestAddressRequest_Approved() {
	stop := s.runSurface(true)
	defer stop()

	payload := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeRequestAddress})
	resp, ok := payload.(wire.AddressResponse)
	s.Require().True(ok)
	s.True(resp.Success)
	s.Equal(testutil.WalletAddress, resp.Address)
	s.Empty(resp.Error)

	// The address slot is cleared on the response branch.
	_, err := s.kv.Get(context.Background(), "pendingAddressRequest")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *RelaySuite) TestAddressRequest_Rejected() {
	stop := s.runSurface(false)
	defer stop()

	payload := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeRequestAddress})
	resp, ok := payload.(wire.AddressResponse)
	s.Require().True(ok)
	s.False(resp.Success)
	s.Empty(resp.Address)
	s.Equal("scripted verdict", resp.Error)

	// The page has its answer; the entry must not outlive the response and
	// resurface on the next surface start.
	_, err := s.kv.Get(context.Background(), "pendingAddressRequest")
	s.ErrorIs(err, storage.ErrNotFound)

	requests, err := s.service.SurfaceReady(context.Background())
	s.Require().NoError(err)
	s.Empty(requests)
}

func (s *RelaySuite) TestIssuance_ApprovedAndStored() {
	stop := s.runSurface(true)
	defer stop()

	vc, err := json.Marshal(testutil.SignedCredential(testutil.WalletAddress))
	s.Require().NoError(err)

	payload := s.request("https://issuer.example", wire.Envelope{Type: wire.TypeRequestIssuance, VC: vc})
	resp, ok := payload.(wire.IssuanceResponse)
	s.Require().True(ok)
	s.True(resp.Approved)

	vcs, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(vcs, 1)
	s.Equal("https://issuer.example", vcs[0].Origin())
	s.NotEmpty(vcs[0].ID())
}

func (s *RelaySuite) TestSave_DuplicateOverwritesKeepingIdentity() {
	stop := s.runSurface(true)
	defer stop()

	vc, err := json.Marshal(testutil.SignedCredential(testutil.WalletAddress))
	s.Require().NoError(err)

	first := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeSaveVC, VC: vc})
	s.Require().True(first.(wire.SaveResponse).Success)

	before, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(before, 1)

	second := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeSaveVC, VC: vc})
	s.Require().True(second.(wire.SaveResponse).Success)

	after, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(after, 1, "re-saving the same grant must not grow the collection")
	s.Equal(before[0].ID(), after[0].ID())
	s.Equal(before[0].SavedAt(), after[0]["previousSavedAt"])
}

func (s *RelaySuite) TestIssuance_TimesOutWithoutDecision() {
	// Surface attached but silent: the caller-side timer decides.
	wake, cancel := s.notifier.Subscribe()
	defer cancel()
	go func() {
		for range wake {
		}
	}()

	vc, err := json.Marshal(testutil.SignedCredential(testutil.WalletAddress))
	s.Require().NoError(err)

	payload := s.request("https://issuer.example", wire.Envelope{Type: wire.TypeRequestIssuance, VC: vc})
	resp, ok := payload.(wire.IssuanceResponse)
	s.Require().True(ok)
	s.False(resp.Approved)
	s.Equal("timeout", resp.Error)

	// The abandoned entry must not be presented later.
	_, err = s.kv.Get(context.Background(), "pendingVCIssuance")
	s.ErrorIs(err, storage.ErrNotFound)

	vcs, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Empty(vcs)
}

func (s *RelaySuite) TestRequest_NoSurfaceAttached() {
	payload := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeRequestAddress})
	resp, ok := payload.(wire.AddressResponse)
	s.Require().True(ok)
	s.False(resp.Success)
	s.Equal("wallet surface could not be opened", resp.Error)
}

func (s *RelaySuite) TestDeleteVC() {
	stop := s.runSurface(true)
	defer stop()

	vc, err := json.Marshal(testutil.SignedCredential(testutil.WalletAddress))
	s.Require().NoError(err)
	s.request("https://dapp.example", wire.Envelope{Type: wire.TypeSaveVC, VC: vc})

	stored, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(stored, 1)

	payload := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeDeleteVC, VCID: stored[0].ID()})
	s.Require().True(payload.(wire.SaveResponse).Success)

	remaining, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Empty(remaining)

	missing := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeDeleteVC, VCID: "gone"})
	resp := missing.(wire.SaveResponse)
	s.False(resp.Success)
	s.NotEmpty(resp.Error)
}

func (s *RelaySuite) TestMalformedCredential() {
	payload := s.request("https://dapp.example", wire.Envelope{Type: wire.TypeSaveVC, VC: json.RawMessage(`[1,2]`)})
	resp, ok := payload.(wire.SaveResponse)
	s.Require().True(ok)
	s.False(resp.Success)
	s.Equal("malformed credential", resp.Error)
}

func (s *RelaySuite) TestUnknownMessageTypeDropped() {
	conn, err := s.bus.Connect("https://dapp.example")
	s.Require().NoError(err)
	defer conn.Close()

	_, err = conn.Request(context.Background(), wire.Envelope{Type: "MYSTERY"})
	s.Error(err)
}

func (s *RelaySuite) TestOriginComesFromTransport() {
	stop := s.runSurface(true)
	defer stop()

	vc, err := json.Marshal(testutil.SignedCredential(testutil.WalletAddress))
	s.Require().NoError(err)

	// The envelope claims a different origin; the stored credential must
	// carry the connection's origin.
	payload := s.request("https://real.example", wire.Envelope{
		Type:   wire.TypeSaveVC,
		Origin: "https://spoofed.example",
		VC:     vc,
	})
	s.Require().True(payload.(wire.SaveResponse).Success)

	vcs, err := s.creds.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(vcs, 1)
	s.Equal("https://real.example", vcs[0].Origin())
}

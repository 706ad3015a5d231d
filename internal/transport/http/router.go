package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"didwallet/internal/approval"
	"didwallet/internal/credential"
	"didwallet/internal/pending"
	"didwallet/internal/platform/middleware"
	"didwallet/internal/relay"
)

//go:generate mockgen -source=router.go -destination=mocks/mocks.go -package=mocks

// ApprovalService is the approval surface the transport layer drives.
type ApprovalService interface {
	SurfaceReady(ctx context.Context) ([]pending.Request, error)
	Decide(ctx context.Context, d approval.Decision) error
	Credentials(ctx context.Context) ([]credential.Credential, error)
	Delete(ctx context.Context, id string) error
}

// WalletSession is the session surface the transport layer drives.
type WalletSession interface {
	Initialize(ctx context.Context, password string) (string, error)
	Unlock(ctx context.Context, password string) (string, error)
	Lock()
	Unlocked() bool
	Address() string
	Activity()
	SwitchAccount(ctx context.Context, index uint32) (string, error)
}

// Handler is the thin HTTP layer. It delegates to domain services without
// embedding business logic so transport concerns remain isolated.
type Handler struct {
	approvals ApprovalService
	session   WalletSession
	bus       *relay.Bus
	notifier  *relay.SurfaceNotifier
	logger    *slog.Logger

	connMu sync.Mutex
	conns  map[string]*relay.PageConn
}

func NewHandler(approvals ApprovalService, session WalletSession, bus *relay.Bus,
	notifier *relay.SurfaceNotifier, logger *slog.Logger) *Handler {
	return &Handler{
		approvals: approvals,
		session:   session,
		bus:       bus,
		notifier:  notifier,
		logger:    logger,
		conns:     make(map[string]*relay.PageConn),
	}
}

// NewRouter wires all wallet endpoints with middleware. Page endpoints carry
// untrusted traffic; everything under /surface and /wallet belongs to the
// privileged surface.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(90 * time.Second))

	r.Post("/page/message", h.handlePageMessage)

	r.Get("/surface/wake", h.handleSurfaceWake)
	r.Get("/surface/pending", h.handleSurfacePending)
	r.Post("/surface/decision", h.handleSurfaceDecision)

	r.Get("/credentials", h.handleCredentialList)
	r.Delete("/credentials/{id}", h.handleCredentialDelete)

	r.Post("/wallet/initialize", h.handleWalletInitialize)
	r.Post("/wallet/unlock", h.handleWalletUnlock)
	r.Post("/wallet/lock", h.handleWalletLock)
	r.Get("/wallet/status", h.handleWalletStatus)
	r.Post("/wallet/account", h.handleWalletAccount)

	return r
}

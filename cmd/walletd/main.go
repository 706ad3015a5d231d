package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"didwallet/internal/approval"
	approvalmetrics "didwallet/internal/approval/metrics"
	"didwallet/internal/audit"
	"didwallet/internal/credential"
	credstore "didwallet/internal/credential/store"
	"didwallet/internal/pending"
	"didwallet/internal/platform/config"
	"didwallet/internal/platform/health"
	"didwallet/internal/platform/httpserver"
	"didwallet/internal/platform/logger"
	"didwallet/internal/platform/storage"
	"didwallet/internal/platform/tracer"
	"didwallet/internal/relay"
	httptransport "didwallet/internal/transport/http"
	"didwallet/internal/wallet"
)

// main wires high-level dependencies and keeps the daemon lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing didwallet daemon",
		"addr", cfg.Addr,
		"storage", cfg.StoragePath,
		"trusted_issuer", cfg.TrustedIssuer,
	)

	kv, err := storage.NewSQLiteStore(cfg.StoragePath)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	verifier := &credential.Engine{
		TrustedIssuer: cfg.TrustedIssuer,
		Secret:        cfg.IssuerSecret,
		PublicKey: credential.PublicKey{
			Ax: cfg.IssuerPublicAx,
			Ay: cfg.IssuerPublicAy,
		},
	}

	creds := credstore.NewKVStore(kv)
	pendingStore := pending.NewStore(kv, pending.WithTTL(cfg.PendingTTL))
	session := wallet.NewSession(kv, wallet.NewKeyring(),
		wallet.WithIdleLock(cfg.IdleLockAfter),
		wallet.WithSessionLogger(log),
	)

	auditor := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(64),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	notifier := relay.NewSurfaceNotifier()
	approvals := approval.NewService(pendingStore, creds, verifier, notifier, session, auditor,
		approval.WithDecisionTimeout(cfg.DecisionTimeout),
		approval.WithMetrics(approvalmetrics.New()),
		approval.WithTracer(tracer.NewOTel()),
		approval.WithLogger(log),
	)

	mediator := relay.NewMediator(approvals, relay.WithMediatorLogger(log))
	bus := relay.NewBus(mediator, relay.WithBusLogger(log))
	defer bus.Close()

	handler := httptransport.NewHandler(approvals, session, bus, notifier, log)

	root := chi.NewRouter()
	root.Mount("/", httptransport.NewRouter(handler, log))
	root.Handle("/metrics", promhttp.Handler())

	healthHandler := health.New()
	healthHandler.RegisterCheck("storage", func(ctx context.Context) error {
		_, err := kv.GetAll(ctx)
		return err
	})
	healthHandler.Register(root)

	srv := httpserver.New(cfg.Addr, root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("daemon stopped")
}

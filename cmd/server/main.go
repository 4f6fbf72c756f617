package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Dishu223/fairshare-splitapp/internal/auth"
	"github.com/Dishu223/fairshare-splitapp/internal/config"
	"github.com/Dishu223/fairshare-splitapp/internal/server"
	"github.com/Dishu223/fairshare-splitapp/internal/service"
	"github.com/Dishu223/fairshare-splitapp/internal/store/sqlite"
	"github.com/Dishu223/fairshare-splitapp/internal/syncer"
	"github.com/Dishu223/fairshare-splitapp/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)
	logger := slog.Default()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	// The coordinator keeps an in-memory snapshot of the ledger current so
	// balance reads do not hit the database on the hot path.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord := syncer.New(store)
	if err := coord.Start(ctx); err != nil {
		logger.Error("Failed to start sync coordinator", "error", err)
		os.Exit(1)
	}
	defer coord.Stop()
	if err := coord.WaitSynced(5 * time.Second); err != nil {
		logger.Error("Sync coordinator did not converge", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv := server.New(
		service.NewAuthService(authenticator, jwtManager, logger),
		service.NewGroupService(store, logger),
		service.NewLedgerService(store, store, coord, logger),
		jwtManager,
		logger,
	)

	// h2c allows HTTP/2 without TLS for local and reverse-proxied setups.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info("Server starting", "address", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// Package server exposes the ledger over a JSON HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dishu223/fairshare-splitapp/internal/auth"
	"github.com/Dishu223/fairshare-splitapp/internal/middleware"
	"github.com/Dishu223/fairshare-splitapp/internal/service"
)

// Server wires the services to HTTP routes.
type Server struct {
	authSvc    *service.AuthService
	groups     *service.GroupService
	ledger     *service.LedgerService
	jwtManager *auth.JWTManager
	logger     *slog.Logger
}

// New creates a new server.
func New(authSvc *service.AuthService, groups *service.GroupService, ledger *service.LedgerService, jwtManager *auth.JWTManager, logger *slog.Logger) *Server {
	return &Server{
		authSvc:    authSvc,
		groups:     groups,
		ledger:     ledger,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Handler builds the full HTTP handler: routes, auth, logging and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public routes.
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/guest", s.handleGuest)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Everything touching the ledger requires an actor token.
	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/groups", s.handleListGroups)
	protected.HandleFunc("POST /api/groups", s.handleCreateGroup)
	protected.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	protected.HandleFunc("DELETE /api/groups/{id}", s.handleDeleteGroup)
	protected.HandleFunc("POST /api/groups/{id}/members", s.handleAddMember)
	protected.HandleFunc("GET /api/groups/{id}/transactions", s.handleListTransactions)
	protected.HandleFunc("POST /api/groups/{id}/expenses", s.handleRecordExpense)
	protected.HandleFunc("POST /api/groups/{id}/settlements", s.handleRecordSettlement)
	protected.HandleFunc("GET /api/groups/{id}/balances", s.handleBalances)
	protected.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	protected.HandleFunc("POST /api/transactions/{id}/restore", s.handleRestoreTransaction)

	mux.Handle("/api/", middleware.RequireAuth(s.jwtManager)(protected))

	return middleware.Logging(middleware.CORS(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

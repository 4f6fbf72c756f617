package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/auth"
	"github.com/Dishu223/fairshare-splitapp/internal/middleware"
	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/service"
	"github.com/Dishu223/fairshare-splitapp/internal/store"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.authSvc.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	user, token, err := s.authSvc.Guest(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

type createGroupRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), middleware.GetActorID(r.Context()), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := s.groups.DeleteGroup(ctx, middleware.GetActorID(ctx), middleware.GetDisplayName(ctx), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	groupID := r.PathValue("id")
	if err := s.groups.AddMember(r.Context(), groupID, req.Name); err != nil {
		respondError(w, err)
		return
	}

	group, err := s.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("deleted") == "1"
	txs, err := s.ledger.ListTransactions(r.Context(), r.PathValue("id"), includeDeleted)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

type expenseRequest struct {
	Description string                     `json:"description"`
	Amount      decimal.Decimal            `json:"amount"`
	Payer       string                     `json:"payer"`
	SplitMode   models.SplitMode           `json:"splitMode"`
	SplitShares map[string]decimal.Decimal `json:"splitShares,omitempty"`
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SplitMode == "" {
		req.SplitMode = models.SplitEqual
	}

	ctx := r.Context()
	tx, err := s.ledger.RecordExpense(ctx, middleware.GetActorID(ctx), r.PathValue("id"),
		req.Description, req.Amount, req.Payer, req.SplitMode, req.SplitShares)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

type settlementRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Payer    string          `json:"payer"`
	Receiver string          `json:"receiver"`
}

func (s *Server) handleRecordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	tx, err := s.ledger.RecordSettlement(ctx, middleware.GetActorID(ctx), r.PathValue("id"),
		req.Amount, req.Payer, req.Receiver)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.Balances(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.ledger.DeleteTransaction(ctx, middleware.GetActorID(ctx), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestoreTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.ledger.RestoreTransaction(ctx, middleware.GetActorID(ctx), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors to HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownMember),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, models.ErrEmptyGroupName),
		errors.Is(err, models.ErrEmptyMemberName),
		errors.Is(err, models.ErrAmountNotPositive),
		errors.Is(err, models.ErrMissingDescription),
		errors.Is(err, models.ErrMissingPayer),
		errors.Is(err, models.ErrMissingReceiver),
		errors.Is(err, models.ErrReceiverIsPayer),
		errors.Is(err, models.ErrMissingShares),
		errors.Is(err, models.ErrShareNotPositive),
		errors.Is(err, models.ErrSplitMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

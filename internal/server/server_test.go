package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/auth"
	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/service"
	"github.com/Dishu223/fairshare-splitapp/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-key-at-least-32-bytes!", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(s)

	srv := New(
		service.NewAuthService(authenticator, jwtManager, logger),
		service.NewGroupService(s, logger),
		service.NewLedgerService(s, s, nil, logger),
		jwtManager,
		logger,
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON issues a request and decodes the response body into out (if non-nil).
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func guestToken(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var session struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if status := doJSON(t, ts, http.MethodPost, "/api/auth/guest", "", nil, &session); status != http.StatusCreated {
		t.Fatalf("guest login status = %d, want 201", status)
	}
	if session.Token == "" || !session.User.Guest {
		t.Fatalf("guest session malformed: %+v", session)
	}
	return session.Token
}

func TestServerRejectsMissingToken(t *testing.T) {
	ts := newTestServer(t)

	if status := doJSON(t, ts, http.MethodGet, "/api/groups", "", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if status := doJSON(t, ts, http.MethodGet, "/healthz", "", nil, nil); status != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", status)
	}
}

func TestServerRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	register := map[string]string{
		"email":       "alex@example.com",
		"displayName": "Alex",
		"password":    "s3cret-pass",
	}
	var session struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if status := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", register, &session); status != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", status)
	}
	if session.User.Email != "alex@example.com" || session.User.Guest {
		t.Errorf("registered user malformed: %+v", session.User)
	}

	// Duplicate registration conflicts.
	if status := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", register, nil); status != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", status)
	}

	login := map[string]string{"email": "alex@example.com", "password": "s3cret-pass"}
	if status := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", login, &session); status != http.StatusOK {
		t.Errorf("login status = %d, want 200", status)
	}

	badLogin := map[string]string{"email": "alex@example.com", "password": "wrong-pass"}
	if status := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", badLogin, nil); status != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", status)
	}
}

func TestServerLedgerFlow(t *testing.T) {
	ts := newTestServer(t)
	token := guestToken(t, ts)

	// Create a group and grow it to three members.
	var group models.Group
	if status := doJSON(t, ts, http.MethodPost, "/api/groups", token, map[string]string{"name": "Trip"}, &group); status != http.StatusCreated {
		t.Fatalf("create group status = %d, want 201", status)
	}
	for _, m := range []string{"Alice", "Bob"} {
		path := fmt.Sprintf("/api/groups/%s/members", group.ID)
		if status := doJSON(t, ts, http.MethodPost, path, token, map[string]string{"name": m}, &group); status != http.StatusOK {
			t.Fatalf("add member %s status = %d, want 200", m, status)
		}
	}
	if len(group.Members) != 3 {
		t.Fatalf("members = %v, want 3 entries", group.Members)
	}

	// Record an expense and a settlement.
	var expense models.Transaction
	expenseReq := map[string]any{
		"description": "Hotel",
		"amount":      "90",
		"payer":       "Alice",
		"splitMode":   "equal",
	}
	path := fmt.Sprintf("/api/groups/%s/expenses", group.ID)
	if status := doJSON(t, ts, http.MethodPost, path, token, expenseReq, &expense); status != http.StatusCreated {
		t.Fatalf("record expense status = %d, want 201", status)
	}

	settlementReq := map[string]any{"amount": "30", "payer": "You", "receiver": "Alice"}
	path = fmt.Sprintf("/api/groups/%s/settlements", group.ID)
	if status := doJSON(t, ts, http.MethodPost, path, token, settlementReq, nil); status != http.StatusCreated {
		t.Fatalf("record settlement status = %d, want 201", status)
	}

	// Balances: Alice +60-30, You -30+30, Bob -30.
	var summary struct {
		Balances map[string]decimal.Decimal `json:"balances"`
		Total    decimal.Decimal            `json:"total"`
	}
	path = fmt.Sprintf("/api/groups/%s/balances", group.ID)
	if status := doJSON(t, ts, http.MethodGet, path, token, nil, &summary); status != http.StatusOK {
		t.Fatalf("balances status = %d, want 200", status)
	}
	if !summary.Balances["Alice"].Equal(decimal.NewFromInt(30)) {
		t.Errorf("Alice balance = %s, want 30", summary.Balances["Alice"])
	}
	if !summary.Balances["You"].IsZero() {
		t.Errorf("You balance = %s, want 0", summary.Balances["You"])
	}
	if !summary.Total.Equal(decimal.NewFromInt(90)) {
		t.Errorf("total = %s, want 90", summary.Total)
	}

	// Soft delete the expense, then restore it.
	if status := doJSON(t, ts, http.MethodDelete, "/api/transactions/"+expense.ID, token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete tx status = %d, want 204", status)
	}
	var listing struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	path = fmt.Sprintf("/api/groups/%s/transactions", group.ID)
	if status := doJSON(t, ts, http.MethodGet, path, token, nil, &listing); status != http.StatusOK {
		t.Fatalf("list tx status = %d, want 200", status)
	}
	if len(listing.Transactions) != 1 {
		t.Errorf("live transactions = %d, want 1 (settlement only)", len(listing.Transactions))
	}
	if status := doJSON(t, ts, http.MethodGet, path+"?deleted=1", token, nil, &listing); status != http.StatusOK {
		t.Fatalf("list all tx status = %d, want 200", status)
	}
	if len(listing.Transactions) != 2 {
		t.Errorf("all transactions = %d, want 2", len(listing.Transactions))
	}

	if status := doJSON(t, ts, http.MethodPost, "/api/transactions/"+expense.ID+"/restore", token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("restore tx status = %d, want 204", status)
	}

	// Validation failures map to 400.
	badExpense := map[string]any{"description": "", "amount": "10", "payer": "Alice"}
	path = fmt.Sprintf("/api/groups/%s/expenses", group.ID)
	if status := doJSON(t, ts, http.MethodPost, path, token, badExpense, nil); status != http.StatusBadRequest {
		t.Errorf("invalid expense status = %d, want 400", status)
	}

	// Unknown group maps to 404.
	if status := doJSON(t, ts, http.MethodGet, "/api/groups/nope/balances", token, nil, nil); status != http.StatusNotFound {
		t.Errorf("missing group status = %d, want 404", status)
	}
}

func TestServerDeleteGroupPermissions(t *testing.T) {
	ts := newTestServer(t)
	creatorToken := guestToken(t, ts)

	var group models.Group
	if status := doJSON(t, ts, http.MethodPost, "/api/groups", creatorToken, map[string]string{"name": "Club"}, &group); status != http.StatusCreated {
		t.Fatalf("create group status = %d, want 201", status)
	}

	// Guests share the display name "Guest", which would make any guest a
	// member-by-name match in some groups; a registered outsider gives an
	// unambiguous permission check.
	register := map[string]string{"email": "m@example.com", "displayName": "Mallory", "password": "s3cret-pass"}
	var session struct {
		Token string `json:"token"`
	}
	if status := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", register, &session); status != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", status)
	}

	if status := doJSON(t, ts, http.MethodDelete, "/api/groups/"+group.ID, session.Token, nil, nil); status != http.StatusForbidden {
		t.Errorf("outsider delete status = %d, want 403", status)
	}
	if status := doJSON(t, ts, http.MethodDelete, "/api/groups/"+group.ID, creatorToken, nil, nil); status != http.StatusNoContent {
		t.Errorf("creator delete status = %d, want 204", status)
	}
}

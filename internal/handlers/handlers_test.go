package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/query"
)

func TestPasswordHash(t *testing.T) {
	want := PasswordHash("BOB", "PW1")
	assert.Equal(t, want, PasswordHash("Bob", "Pw1"))
	assert.Equal(t, want, PasswordHash("bob", "pw1"))
	assert.Len(t, want, 40)
	assert.Equal(t, strings.ToUpper(want), want)
	assert.NotEqual(t, want, PasswordHash("bob", "pw2"))

	// sha1("ADMIN:ADMIN")
	assert.Equal(t, "8301316D0D8448A34FA6D0C6BF1CBFA2B4A1A93A", PasswordHash("admin", "admin"))
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		development bool
		wantStatus  int
		wantBody    ErrorResponse
	}{
		{name: "validation", err: &ValidationError{Field: "itemId", Message: "Item ID is required"},
			wantStatus: http.StatusBadRequest, wantBody: ErrorResponse{Error: "Item ID is required"}},
		{name: "pagination", err: &query.PageError{Param: "limit", Message: "limit must not exceed 500"},
			wantStatus: http.StatusBadRequest, wantBody: ErrorResponse{Error: "limit must not exceed 500"}},
		{name: "not found", err: &NotFoundError{Resource: "Account"},
			wantStatus: http.StatusNotFound, wantBody: ErrorResponse{Error: "Account not found"}},
		{name: "conflict", err: &ConflictError{Message: "Username already exists"},
			wantStatus: http.StatusConflict, wantBody: ErrorResponse{Error: "Username already exists"}},
		{name: "wrapped conflict", err: fmt.Errorf("create: %w", &ConflictError{Message: "Username already exists"}),
			wantStatus: http.StatusConflict, wantBody: ErrorResponse{Error: "Username already exists"}},
		{name: "persistence hides cause", err: &PersistenceError{Op: "fetch accounts", Err: errors.New("dial tcp: refused")},
			wantStatus: http.StatusInternalServerError, wantBody: ErrorResponse{Error: "Failed to fetch accounts"}},
		{name: "persistence in development", err: &PersistenceError{Op: "fetch accounts", Err: errors.New("dial tcp: refused")},
			development: true,
			wantStatus:  http.StatusInternalServerError, wantBody: ErrorResponse{Error: "Failed to fetch accounts", Message: "dial tcp: refused"}},
		{name: "unknown", err: errors.New("boom"),
			wantStatus: http.StatusInternalServerError, wantBody: ErrorResponse{Error: "Internal server error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			base{development: tt.development}.writeError(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestValidateRealmUpdate(t *testing.T) {
	port := func(p int) *int { return &p }
	name := func(s string) *string { return &s }

	tests := []struct {
		name      string
		req       UpdateRealmRequest
		wantField string
	}{
		{name: "empty request is valid here", req: UpdateRealmRequest{}},
		{name: "valid port", req: UpdateRealmRequest{Port: port(8085)}},
		{name: "port zero", req: UpdateRealmRequest{Port: port(0)}, wantField: "port"},
		{name: "port too large", req: UpdateRealmRequest{Port: port(65536)}, wantField: "port"},
		{name: "blank name", req: UpdateRealmRequest{Name: name("  ")}, wantField: "name"},
		{name: "blank address", req: UpdateRealmRequest{Address: name("")}, wantField: "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRealmUpdate(&tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateCreateAccount(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateAccountRequest
		wantField string
	}{
		{name: "valid", req: CreateAccountRequest{Username: "bob", Password: "pw"}},
		{name: "missing username", req: CreateAccountRequest{Password: "pw"}, wantField: "username"},
		{name: "missing password", req: CreateAccountRequest{Username: "bob"}, wantField: "password"},
		{name: "separator in username", req: CreateAccountRequest{Username: "b:ob", Password: "pw"}, wantField: "username"},
		{name: "negative gmlevel", req: CreateAccountRequest{Username: "bob", Password: "pw", GMLevel: -1}, wantField: "gmlevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreateAccount(&tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

// closedDB returns a handle whose every statement fails, so a handler that
// answers 400 with it provably issued no SQL.
func closedDB(t *testing.T) *database.DB {
	t.Helper()
	cfg := &database.Config{Driver: database.DriverSQLite, MaxOpenConns: 1, MaxIdleConns: 1}
	db, err := database.NewConnection(context.Background(), cfg, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return db
}

func TestSparseUpdatesWithoutFieldsIssueNoStatement(t *testing.T) {
	db := closedDB(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		vars    map[string]string
	}{
		{name: "character", handler: NewCharacterHandler(false, db, db, db, LogDelivery{}).Update, vars: map[string]string{"guid": "7"}},
		{name: "account", handler: NewAccountHandler(false, db, db).Update, vars: map[string]string{"id": "7"}},
		{name: "realm", handler: NewServerHandler(false, db, db, nil, 0, "*").UpdateRealm, vars: map[string]string{"id": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, body := range []string{`{}`, `{"unknown": 5}`, ``} {
				req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)), tt.vars)
				rec := httptest.NewRecorder()
				tt.handler(rec, req)

				assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
				assert.JSONEq(t, `{"error":"No fields to update"}`, rec.Body.String())
			}
		})
	}
}

func TestPathIDValidation(t *testing.T) {
	h := NewAccountHandler(false, closedDB(t), nil)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommandExecute(t *testing.T) {
	h := NewCommandHandler(false, nil, LogDispatcher{}, nil)

	rec := httptest.NewRecorder()
	h.Execute(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"command":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Command is required"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Execute(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"command":".revive","characterName":"Thrall"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExecuteCommandResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, ".revive", resp.Command)
	assert.Equal(t, "Thrall", resp.CharacterName)
	assert.NotEmpty(t, resp.RequestID)

	rec = httptest.NewRecorder()
	h.Common(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		origin  string
		want    bool
	}{
		{name: "wildcard", allowed: "*", origin: "http://evil.example", want: true},
		{name: "unset", allowed: "", origin: "http://evil.example", want: true},
		{name: "no origin header", allowed: "http://panel.example", want: true},
		{name: "match", allowed: "http://panel.example", origin: "http://panel.example", want: true},
		{name: "case and trailing slash", allowed: "http://panel.example/", origin: "HTTP://Panel.Example", want: true},
		{name: "foreign", allowed: "http://panel.example", origin: "http://evil.example", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/server/stats/live", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, OriginChecker(tt.allowed)(req))
		})
	}
}

package handlers

import (
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/models"
	"github.com/omega-realm/mangos-admin/internal/query"
)

const (
	listLimit = 100

	// Deleting an account bans it for ten years.
	deleteBanDuration = 315360000
	deleteBannedBy    = "Admin Panel"
	deleteBanReason   = "Account deleted via admin panel"
)

type AccountHandler struct {
	base
	realmd     *database.DB
	characters *database.DB
	now        func() time.Time
}

func NewAccountHandler(development bool, realmd, characters *database.DB) *AccountHandler {
	return &AccountHandler{base: base{development: development}, realmd: realmd, characters: characters, now: time.Now}
}

// CreateAccountRequest represents the request body for account creation
type CreateAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	GMLevel  int    `json:"gmlevel"`
}

// UpdateAccountRequest carries the fields a sparse account update may set
type UpdateAccountRequest struct {
	Email   *string `json:"email"`
	GMLevel *int    `json:"gmlevel"`
	Locked  *int    `json:"locked"`
}

// ResetPasswordRequest represents the request body for a password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// CreateAccountResponse is returned with 201 on account creation
type CreateAccountResponse struct {
	Message  string `json:"message"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AccountDetailResponse is an account with its characters
type AccountDetailResponse struct {
	Account    models.Account            `json:"account"`
	Characters []models.AccountCharacter `json:"characters"`
}

// PasswordHash returns the realmd credential hash: the upper-case hex SHA1 of
// "USERNAME:PASSWORD". Both parts are upper-cased, so the hash is case-insensitive.
func PasswordHash(username, password string) string {
	sum := sha1.Sum([]byte(strings.ToUpper(username) + ":" + strings.ToUpper(password)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// List returns the most recent accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	stmt, _ := query.NewSelect("account", "id", "username", "email", "joindate", "last_login", "locked", "gmlevel").
		OrderBy("id DESC").
		Build(query.Page{Number: 1, Limit: listLimit})

	rows, err := h.realmd.QueryContext(r.Context(), stmt.SQL, stmt.Args...)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch accounts", Err: err})
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.JoinDate, &a.LastLogin, &a.Locked, &a.GMLevel); err != nil {
			h.writeError(w, r, &PersistenceError{Op: "fetch accounts", Err: err})
			return
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch accounts", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// Get returns one account and its characters
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	stmt := query.NewSelect("account", "id", "username", "email", "joindate", "last_login", "locked", "gmlevel", "expansion").
		Where(query.Equality{Column: "id", Value: id}).
		One()

	var a models.Account
	err = h.realmd.QueryRowContext(r.Context(), stmt.SQL, stmt.Args...).Scan(
		&a.ID, &a.Username, &a.Email, &a.JoinDate, &a.LastLogin, &a.Locked, &a.GMLevel, &a.Expansion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, r, &NotFoundError{Resource: "Account"})
		return
	}
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch account", Err: err})
		return
	}

	charStmt := query.NewSelect("characters", "guid", "name", "race", "class", "level").
		Where(query.Equality{Column: "account", Value: id}).
		OrderBy("guid").
		All()
	rows, err := h.characters.QueryContext(r.Context(), charStmt.SQL, charStmt.Args...)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch account", Err: err})
		return
	}
	defer rows.Close()

	characters := []models.AccountCharacter{}
	for rows.Next() {
		var c models.AccountCharacter
		if err := rows.Scan(&c.GUID, &c.Name, &c.Race, &c.Class, &c.Level); err != nil {
			h.writeError(w, r, &PersistenceError{Op: "fetch account", Err: err})
			return
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch account", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, AccountDetailResponse{Account: a, Characters: characters})
}

// Create registers a new account
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validateCreateAccount(&req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	existing := query.NewSelect("account", "id").
		Where(query.Equality{Column: "UPPER(username)", Value: strings.ToUpper(req.Username)}).
		One()
	var existingID int
	err := h.realmd.QueryRowContext(ctx, existing.SQL, existing.Args...).Scan(&existingID)
	if err == nil {
		h.writeError(w, r, &ConflictError{Message: "Username already exists"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, r, &PersistenceError{Op: "create account", Err: err})
		return
	}

	id, err := h.realmd.InsertID(ctx,
		"INSERT INTO account (username, sha_pass_hash, email, gmlevel, joindate) VALUES (?, ?, ?, ?, ?)",
		req.Username, PasswordHash(req.Username, req.Password), req.Email, req.GMLevel, h.now().UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			h.writeError(w, r, &ConflictError{Message: "Username already exists"})
			return
		}
		h.writeError(w, r, &PersistenceError{Op: "create account", Err: err})
		return
	}

	log.Info("[Accounts] Created account %s (ID: %d)", req.Username, id)
	writeJSON(w, http.StatusCreated, CreateAccountResponse{
		Message:  "Account created successfully",
		ID:       id,
		Username: req.Username,
	})
}

// Update applies a sparse update of email, gmlevel and locked
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req UpdateAccountRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := query.NewUpdate("account", query.Equality{Column: "id", Value: id})
	if req.Email != nil {
		upd.Set("email", *req.Email)
	}
	if req.GMLevel != nil {
		if *req.GMLevel < 0 {
			h.writeError(w, r, &ValidationError{Field: "gmlevel", Message: "gmlevel must not be negative"})
			return
		}
		upd.Set("gmlevel", *req.GMLevel)
	}
	if req.Locked != nil {
		upd.Set("locked", *req.Locked)
	}

	if err := execUpdate(r.Context(), h.realmd, upd, "update account"); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account updated successfully"})
}

// ResetPassword recomputes the credential hash with a new password
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req ResetPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.NewPassword == "" {
		h.writeError(w, r, &ValidationError{Field: "newPassword", Message: "New password is required"})
		return
	}

	username, err := h.username(r, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := query.NewUpdate("account", query.Equality{Column: "id", Value: id}).
		Set("sha_pass_hash", PasswordHash(username, req.NewPassword))
	if err := execUpdate(r.Context(), h.realmd, upd, "reset password"); err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info("[Accounts] Password reset for account %d", id)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}

// Delete bans the account. The account row itself is kept.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.username(r, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	ban := models.Ban{
		AccountID: id,
		BanDate:   h.now().Unix(),
		BannedBy:  deleteBannedBy,
		BanReason: deleteBanReason,
		Active:    true,
	}
	ban.UnbanDate = ban.BanDate + deleteBanDuration

	_, err = h.realmd.ExecContext(r.Context(),
		"INSERT INTO account_banned (id, bandate, unbandate, bannedby, banreason, active) VALUES (?, ?, ?, ?, ?, ?)",
		ban.AccountID, ban.BanDate, ban.UnbanDate, ban.BannedBy, ban.BanReason, 1,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			h.writeError(w, r, &ConflictError{Message: "Account is already banned"})
			return
		}
		h.writeError(w, r, &PersistenceError{Op: "ban account", Err: err})
		return
	}

	log.Info("[Accounts] Banned account %d until %d", id, ban.UnbanDate)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account banned successfully"})
}

func (h *AccountHandler) username(r *http.Request, id int) (string, error) {
	stmt := query.NewSelect("account", "username").
		Where(query.Equality{Column: "id", Value: id}).
		One()
	var username string
	err := h.realmd.QueryRowContext(r.Context(), stmt.SQL, stmt.Args...).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &NotFoundError{Resource: "Account"}
	}
	if err != nil {
		return "", &PersistenceError{Op: "fetch account", Err: err}
	}
	return username, nil
}

// validateCreateAccount validates the account creation request
func validateCreateAccount(req *CreateAccountRequest) error {
	if req.Username == "" || req.Password == "" {
		field := "username"
		if req.Username != "" {
			field = "password"
		}
		return &ValidationError{Field: field, Message: "Username and password are required"}
	}
	if strings.Contains(req.Username, ":") {
		return &ValidationError{Field: "username", Message: "Username must not contain ':'"}
	}
	if req.GMLevel < 0 {
		return &ValidationError{Field: "gmlevel", Message: "gmlevel must not be negative"}
	}
	return nil
}

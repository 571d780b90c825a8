package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/query"
)

const maxBodyBytes = 1 << 20

// MessageResponse is the body of mutations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("[API] Failed to encode response: %v", err)
	}
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &ValidationError{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

// pathID reads an integer route variable.
func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: "Invalid " + name + ": " + raw}
	}
	return id, nil
}

// queryInt reads an optional integer query parameter; nil when absent.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: name, Message: name + " must be an integer"}
	}
	return &n, nil
}

// searchParams reads the q, page and limit parameters shared by search routes.
func searchParams(r *http.Request) (query.Term, query.Page, error) {
	values := r.URL.Query()
	page, err := query.ParsePage(values.Get("page"), values.Get("limit"))
	if err != nil {
		return query.Term{}, query.Page{}, err
	}
	return query.ParseTerm(values.Get("q")), page, nil
}

// execUpdate runs a sparse update. An update without assignments is a
// validation error and issues no statement.
func execUpdate(ctx context.Context, db *database.DB, upd *query.Update, op string) error {
	stmt, err := upd.Build()
	if errors.Is(err, query.ErrNoAssignments) {
		return &ValidationError{Field: "body", Message: "No fields to update"}
	}
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/middleware"
	"github.com/omega-realm/mangos-admin/internal/query"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing row, e.g. "Account not found".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a uniqueness conflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PersistenceError wraps a database failure with the operation that failed.
// Only Op reaches clients outside development.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// base carries what every handler needs to render errors.
type base struct {
	development bool
}

// writeError maps err onto a status code and JSON body.
func (b base) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *ValidationError
		pageErr       *query.PageError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		persistErr    *PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Message})
	case errors.As(err, &pageErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: pageErr.Message})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: conflictErr.Message})
	case errors.As(err, &persistErr):
		log.Error("[API] %s %s: %v id=%s", r.Method, r.URL.Path, err, middleware.RequestIDFromContext(r.Context()))
		body := ErrorResponse{Error: "Failed to " + persistErr.Op}
		if b.development {
			body.Message = persistErr.Err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	default:
		log.Error("[API] %s %s: %v id=%s", r.Method, r.URL.Path, err, middleware.RequestIDFromContext(r.Context()))
		body := ErrorResponse{Error: "Internal server error"}
		if b.development {
			body.Message = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

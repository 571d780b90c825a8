package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/middleware"
)

type APIServer struct {
	server *http.Server
	cancel context.CancelFunc
}

// NewAPIServer creates a new http.Server for handling API requests. Request
// contexts derive from a base context that Stop cancels once the drain is
// over; hijacked live-stats connections end with it.
func NewAPIServer(cfg *Config, handler http.Handler) *APIServer {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	return &APIServer{server: server, cancel: cancel}
}

func (s *APIServer) Addr() string {
	return s.server.Addr
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *APIServer) Start() error {
	log.Info("[API] Server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("[API] Server closed")
			return nil
		}
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, then cancels the base context.
func (s *APIServer) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.cancel()
	return err
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(middleware.ErrorResponse{Error: message}); err != nil {
		log.Error("[API] Failed to encode error response: %v", err)
	}
}

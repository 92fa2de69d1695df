// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

// Package httpapi exposes the administrator authentication service over
// HTTP with JSON bodies. Requests pass through the rate limiter first,
// then (for protected routes) bearer authentication, then the handler.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/wirevista/wirevista/internal/auth"
	"github.com/wirevista/wirevista/internal/observability"
)

// ClientStore persists the opaque VPN client list blob. Bytes in, bytes
// out; this service enforces no internal structure.
type ClientStore interface {
	LoadClients(ctx context.Context) ([]byte, error)
	SaveClients(ctx context.Context, data []byte) error
}

// Server serves the API routes.
type Server struct {
	addr       string
	svc        *auth.Service
	limiter    *auth.RateLimiter
	clients    ClientStore
	metrics    *observability.Metrics
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates an API server. metrics may be nil when the
// observability endpoint is disabled.
func NewServer(addr string, svc *auth.Service, limiter *auth.RateLimiter, clients ClientStore, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, oops.Code("API_NIL_DEPENDENCY").Errorf("auth service is required")
	}
	if limiter == nil {
		return nil, oops.Code("API_NIL_DEPENDENCY").Errorf("rate limiter is required")
	}
	if clients == nil {
		return nil, oops.Code("API_NIL_DEPENDENCY").Errorf("client store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		svc:     svc,
		limiter: limiter,
		clients: clients,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Handler builds the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/setup/status", s.rateLimit(auth.RouteGeneral, http.HandlerFunc(s.handleSetupStatus)))
	mux.Handle("POST /api/setup", s.rateLimit(auth.RouteSetup, http.HandlerFunc(s.handleSetup)))
	mux.Handle("POST /api/login", s.rateLimit(auth.RouteLogin, http.HandlerFunc(s.handleLogin)))
	mux.Handle("POST /api/logout", s.rateLimit(auth.RouteGeneral, s.requireAuth(http.HandlerFunc(s.handleLogout))))
	mux.Handle("GET /api/status", s.rateLimit(auth.RouteGeneral, s.requireAuth(http.HandlerFunc(s.handleStatus))))
	mux.Handle("GET /api/clients", s.rateLimit(auth.RouteGeneral, s.requireAuth(http.HandlerFunc(s.handleClientsGet))))
	mux.Handle("POST /api/clients", s.rateLimit(auth.RouteGeneral, s.requireAuth(http.HandlerFunc(s.handleClientsPost))))

	return s.logRequests(mux)
}

// Start begins serving the API. It returns an error channel that receives
// any errors from the HTTP server after it starts; the channel is closed on
// graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

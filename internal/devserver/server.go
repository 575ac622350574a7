// ABOUTME: In-memory host backend for local development and end-to-end tests
// ABOUTME: Serves every endpoint the hostdesk client uses

// Package devserver runs a self-contained backend with seed data so the CLI and
// TUI can be exercised without a real deployment. Tokens are HS256 JWTs that
// expire after the configured TTL, after which every host endpoint answers 401.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/markalston/hostdesk/internal/config"
)

// DevOTP is the one-time code the dev server accepts for every phone
const DevOTP = "246810"

type Server struct {
	cfg    config.DevConfig
	data   *store
	tokens *tokenIssuer
	otp    string
	now    func() time.Time
}

// Option configures a Server
type Option func(*Server)

// WithClock overrides time.Now for seeding and token expiry
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithOTP overrides the accepted one-time code
func WithOTP(code string) Option {
	return func(s *Server) {
		s.otp = code
	}
}

// New builds a server with fresh seed data
func New(cfg config.DevConfig, opts ...Option) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TokenTTL)
	}

	s := &Server{
		cfg: cfg,
		otp: DevOTP,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := seedStore(s.now())
	if err != nil {
		return nil, err
	}
	s.data = data
	s.tokens = &tokenIssuer{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: s.now}
	return s, nil
}

// Run listens on the configured port until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Dev server listening", "addr", ln.Addr().String(), "token_ttl", s.cfg.TokenTTL)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("Dev server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

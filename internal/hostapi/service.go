// ABOUTME: Access layer between the screens and the host backend
// ABOUTME: Attaches the session token to every call and normalizes 401s

// Package hostapi wraps every backend endpoint the host screens use.
// Each authenticated call reads the guest token from the session store and
// sends it in the JSON body. Some operations turn a 401 into a Result with
// AuthError set after clearing the session; the rest return the error.
package hostapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/hostdesk/internal/client"
	"github.com/markalston/hostdesk/internal/session"
)

// ErrNoSession is returned before any request when no token is stored
var ErrNoSession = errors.New("guest token not found")

// Service is the access layer. Safe for concurrent use.
type Service struct {
	client   *client.Client
	store    *session.Store
	notifier Notifier
	logger   *slog.Logger
	cache    *propertiesCache

	cacheEnabled bool
	now          func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithNotifier sets who is told about expired sessions
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPropertiesCache turns on the one-hour short-circuit for ListProperties
func WithPropertiesCache(enabled bool) Option {
	return func(s *Service) {
		s.cacheEnabled = enabled
	}
}

// WithClock overrides time.Now for cache freshness
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service over the given client and session store
func New(c *client.Client, store *session.Store, opts ...Option) *Service {
	s := &Service{
		client: c,
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = logNotifier{logger: s.logger}
	}
	s.cache = newPropertiesCache(s.cacheEnabled, s.now)
	return s
}

// Close releases the cache's background worker
func (s *Service) Close() {
	s.cache.stop()
}

// Store returns the session store
func (s *Service) Store() *session.Store {
	return s.store
}

// call sends one authenticated request with the token merged into params
func (s *Service) call(ctx context.Context, method, path string, params map[string]interface{}, out interface{}) (int, error) {
	token, err := s.token(ctx)
	if err != nil {
		return 0, err
	}

	body := map[string]interface{}{"token": token}
	for k, v := range params {
		body[k] = v
	}
	return s.client.Do(ctx, method, path, body, out)
}

func (s *Service) token(ctx context.Context) (string, error) {
	token, err := s.store.Token(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return token, nil
}

// expireSession clears the local session and tells the notifier
func (s *Service) expireSession(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear session after 401", "error", err)
	}
	s.cache.clear()
	s.notifier.SessionExpired(ctx)
}

// sentinelCall performs call and turns a 401 into a Result with AuthError set
func sentinelCall[T any](ctx context.Context, s *Service, method, path string, params map[string]interface{}, empty func() T) (Result[T], error) {
	var out T
	_, err := s.call(ctx, method, path, params, &out)
	if err == nil {
		return Result[T]{Value: out}, nil
	}
	if client.IsUnauthorized(err) {
		s.logger.Debug("Backend rejected token", "path", path)
		s.expireSession(ctx)
		return Result[T]{Value: empty(), AuthError: true}, nil
	}
	return Result[T]{}, err
}

func (s *Service) post(ctx context.Context, path string, params map[string]interface{}, out interface{}) error {
	_, err := s.call(ctx, http.MethodPost, path, params, out)
	return err
}

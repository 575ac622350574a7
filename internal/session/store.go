// ABOUTME: Local session store holding the host's token and user profile
// ABOUTME: Built on a swappable key-value backend (file, redis, memory)

// Package session persists the authenticated host's session token and profile.
// A session is created at login, read on every authenticated request, and
// wiped wholesale on logout or when the backend reports the session expired.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys
const (
	TokenKey   = "guestToken"
	ProfileKey = "userProfile"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("not found")

// KV is the durable key-value backend under a Store
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes every key in the backend's keyspace, not only session keys.
	Clear(ctx context.Context) error
}

// Profile is the user profile object returned by the backend at login
type Profile map[string]interface{}

// FirstName returns the display first name, if the backend sent one
func (p Profile) FirstName() string {
	for _, key := range []string{"firstname", "firstName", "first_name"} {
		if v, ok := p[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Store reads and writes the session through a KV backend
type Store struct {
	kv KV
}

// NewStore creates a session store on top of the given backend
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// SetToken stores the session token
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, TokenKey, []byte(token))
}

// Token returns the session token or ErrNotFound
func (s *Store) Token(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNotFound
	}
	return string(data), nil
}

// SetUserProfile stores the user profile as JSON
func (s *Store) SetUserProfile(ctx context.Context, profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return s.kv.Set(ctx, ProfileKey, data)
}

// UserProfile returns the stored profile or ErrNotFound
func (s *Store) UserProfile(ctx context.Context) (Profile, error) {
	data, err := s.kv.Get(ctx, ProfileKey)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("invalid stored profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// Clear removes all keys from the backend
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Clear(ctx)
}

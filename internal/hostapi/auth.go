// ABOUTME: Session creation and teardown
// ABOUTME: Password login, OTP request/verify, logout, and stored profile

package hostapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/markalston/hostdesk/internal/session"
)

// Login authenticates with an email or phone and password, then stores the session
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"identifier": identifier, "password": password}
	if _, err := s.client.Do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return LoginResponse{}, err
	}
	if err := s.saveSession(ctx, resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// RequestOTP asks the backend to send a one-time code to the phone
func (s *Service) RequestOTP(ctx context.Context, phone string) (OTPResponse, error) {
	var resp OTPResponse
	_, err := s.client.Do(ctx, http.MethodPost, "/auth/otp/request", map[string]string{"phone": phone}, &resp)
	return resp, err
}

// VerifyOTP exchanges a one-time code for a session and stores it
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"phone": phone, "code": code}
	if _, err := s.client.Do(ctx, http.MethodPost, "/auth/otp/verify", body, &resp); err != nil {
		return LoginResponse{}, err
	}
	if err := s.saveSession(ctx, resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

func (s *Service) saveSession(ctx context.Context, resp LoginResponse) error {
	if resp.Token == "" {
		return errors.New("login response did not include a token")
	}
	// previous user's properties must not leak into this session
	s.cache.clear()
	if err := s.store.SetToken(ctx, resp.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if resp.User != nil {
		if err := s.store.SetUserProfile(ctx, resp.User); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
	}
	s.logger.Info("Logged in", "user", resp.User.FirstName())
	return nil
}

// Logout clears the local session and the properties cache. No request is sent.
func (s *Service) Logout(ctx context.Context) error {
	s.cache.clear()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Profile returns the stored user profile
func (s *Service) Profile(ctx context.Context) (session.Profile, error) {
	profile, err := s.store.UserProfile(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoSession
	}
	return profile, err
}

// Package auth manages the local user registry and session. Passwords
// are stored in plaintext, matching the storefront's original local
// lookup. TODO: replace with salted-hash storage before any
// multi-user deployment.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/internal/kvstore"
)

var (
	// ErrEmailTaken is returned when registering an email that already
	// has an account.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrUnknownEmail is returned when logging in with an email that
	// has no account.
	ErrUnknownEmail = errors.New("no account for this email")
	// ErrWrongPassword is returned on a password mismatch.
	ErrWrongPassword = errors.New("wrong password")
)

// User is a registered account.
type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Session identifies the logged-in user.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Service owns the user registry and the current session.
type Service struct {
	store  kvstore.Store
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewService creates an auth service over the key-value store.
func NewService(store kvstore.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, email, password, name string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	users, err := s.loadUsers(ctx)
	if err != nil {
		return Session{}, err
	}

	for _, u := range users {
		if u.Email == email {
			return Session{}, ErrEmailTaken
		}
	}

	users = append(users, User{Email: email, Password: password, Name: name})
	if err := s.saveUsers(ctx, users); err != nil {
		return Session{}, err
	}

	return s.openSession(ctx, email, name)
}

// Login validates credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	users, err := s.loadUsers(ctx)
	if err != nil {
		return Session{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if u.Password != password {
			return Session{}, ErrWrongPassword
		}
		return s.openSession(ctx, u.Email, u.Name)
	}
	return Session{}, ErrUnknownEmail
}

// Logout closes the current session. No-op when nobody is logged in.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Remove(ctx, kvstore.KeyCurrentUser)
}

// Current returns the active session, if any.
func (s *Service) Current(ctx context.Context) (Session, bool, error) {
	value, found, err := s.store.Get(ctx, kvstore.KeyCurrentUser)
	if err != nil || !found {
		return Session{}, false, err
	}
	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding unreadable session")
		return Session{}, false, nil
	}
	return session, true, nil
}

func (s *Service) openSession(ctx context.Context, email, name string) (Session, error) {
	session := Session{
		UID:         fmt.Sprintf("local-%d", time.Now().UnixNano()),
		Email:       email,
		DisplayName: name,
	}
	data, err := json.Marshal(session)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.store.Set(ctx, kvstore.KeyCurrentUser, string(data)); err != nil {
		return Session{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, nil
}

func (s *Service) loadUsers(ctx context.Context) ([]User, error) {
	value, found, err := s.store.Get(ctx, kvstore.KeyRegisteredUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to read user registry: %w", err)
	}
	if !found {
		return nil, nil
	}
	var users []User
	if err := json.Unmarshal([]byte(value), &users); err != nil {
		return nil, fmt.Errorf("failed to decode user registry: %w", err)
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode user registry: %w", err)
	}
	if err := s.store.Set(ctx, kvstore.KeyRegisteredUsers, string(data)); err != nil {
		return fmt.Errorf("failed to persist user registry: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

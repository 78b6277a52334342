package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service encapsulates account-related business logic
type Service struct {
	repo          Repository
	adminUsername string
}

// NewService creates a Service. adminUsername names the one distinguished
// administrator account; an account created under that name gets the admin
// role.
func NewService(repo Repository, adminUsername string) *Service {
	if adminUsername == "" {
		adminUsername = "admin"
	}
	return &Service{repo: repo, adminUsername: adminUsername}
}

// Create registers a new account with a bcrypt-hashed password.
// Returns ErrDuplicateUsername when the name is already taken.
func (s *Service) Create(ctx context.Context, username, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := &Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Admin:        username == s.adminUsername,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate verifies a username/password pair against the stored hash.
// Returns ErrInvalidCredentials for unknown usernames and wrong passwords
// alike so callers cannot probe which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// GetByUsername returns the account for username, or ErrNotFound.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Account, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// GetByID returns the account for id, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taskquest/internal/model"
	"taskquest/internal/repository"
)

var (
	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials is returned on a failed login.
	ErrBadCredentials = errors.New("invalid email or password")
)

// Service implements account registration and login.
type Service struct {
	users  *repository.UserRepository
	tokens *TokenManager
	hasher *PasswordHasher
}

func NewService(users *repository.UserRepository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens, hasher: NewPasswordHasher()}
}

// Register creates an account and returns the new user.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user plus a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrBadCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken checks a bearer token and returns its claims.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return s.tokens.Validate(token)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eventtrail/eventtrail-go/internal/crypto"
	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/repository"
	"github.com/eventtrail/eventtrail-go/internal/validation"
)

// UserStore is the persistence surface the auth service needs. Satisfied
// by repository.UserRepository; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles registration and login orchestration.
type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account and returns an auth token. The email
// is lower-cased before lookup and storage so uniqueness is
// case-insensitive. A duplicate email surfaces as ErrEmailTaken, whether
// caught by the pre-check or by the store's unique constraint when two
// registrations race.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	if fields := validation.Struct(req); fields != nil {
		return model.AuthResponse{}, &ValidationError{Fields: fields}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return model.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Message: "User registered successfully",
		User:    userToResponse(user),
		Token:   token,
	}, nil
}

// Login authenticates a user and returns an auth token. An unknown email
// and a wrong password both return ErrInvalidCredentials so callers
// cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if fields := validation.Struct(req); fields != nil {
		return model.AuthResponse{}, &ValidationError{Fields: fields}
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Message: "Login successful",
		User:    userToResponse(user),
		Token:   token,
	}, nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}

	return userToResponse(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userToResponse(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

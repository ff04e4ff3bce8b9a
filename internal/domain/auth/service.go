package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/pkg/jwt"
	"github.com/gracecourt/gracecourt-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup creates a guest account and signs it in
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signup lookup: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleGuest,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("signup create: %w", err)
	}

	return s.issue(u)
}

// Signin verifies credentials and issues an access token
func (s *Service) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("signin lookup: %w", err)
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Me returns the signed-in user
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetRole changes a user's role
func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role string) (*user.User, error) {
	if !user.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if err := s.userRepo.UpdateRole(ctx, id, user.Role(role)); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Me(ctx, id)
}

// EnsureAdmin creates the bootstrap admin, or promotes the account if it
// already exists. Does nothing when email or pass is empty.
func (s *Service) EnsureAdmin(ctx context.Context, email, pass string) error {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("admin lookup: %w", err)
	}
	if existing != nil {
		if existing.Role == user.RoleAdmin {
			return nil
		}
		log.Info().Str("email", email).Msg("Promoting bootstrap account to admin")
		return s.userRepo.UpdateRole(ctx, existing.ID, user.RoleAdmin)
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return err
	}
	u := &user.User{
		ID:           uuid.New(),
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		Verified:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return fmt.Errorf("admin create: %w", err)
	}
	log.Info().Str("email", email).Msg("Bootstrap admin created")
	return nil
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, string(u.Role), u.Verified)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User: NewUserResponse(u),
		Tokens: TokensResponse{
			AccessToken: token,
			ExpiresIn:   int(s.jwtService.AccessTTL().Seconds()),
			TokenType:   "Bearer",
		},
	}, nil
}

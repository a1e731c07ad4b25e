package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/fabrikasoft/fabrika-api/internal/cache"
	"github.com/fabrikasoft/fabrika-api/internal/config"
	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// AuthService handles login, registration and the refresh token lifecycle.
// Refresh tokens are only honored while they remain registered in the token
// store, so logout and rotation actually revoke.
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   cache.TokenStore
	jwtCfg   config.JWTConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(userRepo *repository.UserRepository, tokens cache.TokenStore, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, jwtCfg: jwtCfg}
}

// TokenPair is an issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, login, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		if err == utils.ErrUserNotFound {
			return nil, nil, utils.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, utils.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("login", user.Login).Str("role", string(user.Role)).Msg("user logged in")
	return user, pair, nil
}

// RegisterInput creates an account, optionally bound to an employee.
type RegisterInput struct {
	Login      string
	Password   string
	Role       models.UserRole
	EmployeeID *uuid.UUID
}

// Register creates a new user account. Caller authorization (admin only) is
// enforced at the handler layer.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	taken, err := s.userRepo.ExistsLogin(ctx, in.Login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New(),
		Login:        in.Login,
		PasswordHash: string(hash),
		Role:         in.Role,
		EmployeeID:   in.EmployeeID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("login", user.Login).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Refresh rotates a refresh token: the old one is revoked and a fresh pair is
// issued. An unknown or already-revoked token fails with ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, utils.TokenRefresh, s.jwtCfg.RefreshSecret)
	if err != nil {
		return nil, err
	}
	valid, err := s.tokens.Valid(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, utils.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issuePair(ctx, user)
}

// Logout revokes the refresh token. The access token simply ages out.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := utils.ValidateToken(refreshToken, utils.TokenRefresh, s.jwtCfg.RefreshSecret); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := utils.GenerateToken(user.ID, string(user.Role), utils.TokenAccess, s.jwtCfg.AccessSecret, s.jwtCfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateToken(user.ID, string(user.Role), utils.TokenRefresh, s.jwtCfg.RefreshSecret, s.jwtCfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Store(ctx, refresh, s.jwtCfg.RefreshTTL); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

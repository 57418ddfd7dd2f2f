package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// Well-known development account created by Seed.
const (
	SeedUserName     = "testuser"
	SeedUserEmail    = "test@test.com"
	SeedUserPassword = "test@test.com"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

type UserService struct {
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	hashCost                     int
	logger                       logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	cost := cfg.PasswordHashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		hashCost:                     cost,
		logger:                       logger.With("module", "services.users"),
	}
}

// Register creates an account. The password is hashed before it reaches the
// repository.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, common.NewFault(common.ErrorValidation, "password", err)
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, common.NewFault(common.ErrorDuplicateEmail, email, err)
		}
		return nil, common.NewFault(common.ErrorStorage, "", err)
	}

	s.logger.Info(ctx, "user registered", "id", user.ID)
	return user, nil
}

// Seed registers the development account.
func (s *UserService) Seed(ctx context.Context) (*models.User, error) {
	return s.Register(ctx, SeedUserName, SeedUserEmail, SeedUserPassword)
}

// Login checks the credentials and issues a fresh token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewFault(common.ErrorNotFound, email, nil)
		}
		return nil, common.NewFault(common.ErrorStorage, "", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorInvalidPassword
	}

	tokens, err := s.generateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, err := auth.GetUserIDFromToken(refreshToken, auth.TokenTypeRefresh, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if _, err := s.repomanager.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInvalidID) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.NewFault(common.ErrorStorage, "", err)
	}

	return s.generateTokenPair(userID)
}

// Authenticate verifies an access token and returns the user id it was
// issued to.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, auth.TokenTypeAccess, s.jwtSecret)
}

func (s *UserService) generateTokenPair(userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, auth.TokenTypeAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refresh, err := auth.GenerateToken(userID, auth.TokenTypeRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo   ports.UserRepository
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
	revocation ports.TokenRevocationStore
	log        zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	revocation ports.TokenRevocationStore,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
		revocation: revocation,
		log:        log,
	}
}

// Register creates a new active user.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(req.Password); n < minPasswordLen || n > maxPasswordLen {
		return nil, apperror.ErrValidation("password", fmt.Sprintf("must be %d-%d characters", minPasswordLen, maxPasswordLen))
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	var fullName *string
	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name != "" {
			fullName = &name
		}
	}

	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperror.ErrEmailExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !user.IsActive {
		return "", time.Time{}, apperror.ErrUserInactive()
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthServiceImpl) Logout(ctx context.Context, claims *ports.TokenClaims) error {
	if err := s.revocation.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return apperror.InternalError(fmt.Errorf("revoke token: %w", err))
	}
	s.log.Info().Int64("user_id", claims.UserID).Msg("user logged out")
	return nil
}

// Me returns the current user.
func (s *AuthServiceImpl) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user", userID)
	}
	if !user.IsActive {
		return nil, apperror.ErrUserInactive()
	}
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.ErrValidation("email", "must be a valid email address")
	}
	return email, nil
}

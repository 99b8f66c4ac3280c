package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/auth"
)

// AuthService defines the interface for admin authentication
type AuthService interface {
	// Login checks the credentials of an allow-listed admin and issues a session token
	Login(ctx context.Context, email, password string) (token string, expiresIn int, err error)
	// Authenticate validates a session token and returns the admin email
	Authenticate(token string) (string, error)
	IsAdmin(email string) bool
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	jwtService   *auth.JWTService
	admins       map[string]struct{}
	passwordHash string
	logger       zerolog.Logger
}

// NewAuthService creates a new auth service. Emails are compared case-insensitively.
func NewAuthService(jwtService *auth.JWTService, adminEmails []string, passwordHash string, lgr zerolog.Logger) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &authServiceImpl{
		jwtService:   jwtService,
		admins:       admins,
		passwordHash: passwordHash,
		logger:       lgr,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authServiceImpl) IsAdmin(email string) bool {
	_, ok := s.admins[normalizeEmail(email)]
	return ok
}

// Login authenticates an admin
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, int, error) {
	email = normalizeEmail(email)

	// the same error for unknown emails and wrong passwords
	if !s.IsAdmin(email) || !auth.CheckPassword(s.passwordHash, password) {
		s.logger.Warn().Str("email", email).Msg("Failed admin login attempt")
		return "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateSessionToken(email)
	if err != nil {
		return "", 0, fmt.Errorf("error generating session token: %w", err)
	}
	s.logger.Info().Str("email", email).Msg("Admin logged in")
	return token, expiresIn, nil
}

// Authenticate validates token and the allow-list. Removing an email from the
// allow-list revokes its sessions.
func (s *authServiceImpl) Authenticate(token string) (string, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrTokenInvalid
	}
	if !s.IsAdmin(claims.Email) {
		return "", apperrors.ErrUnauthorized
	}
	return normalizeEmail(claims.Email), nil
}

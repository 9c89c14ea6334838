package auth

import (
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ymori/visafaq/pkg/errors"
)

const tokenSubject = "admin"

// Config carries the admin credential and token settings. AdminKeyHash is a
// bcrypt hash of the shared admin key; an empty hash disables the admin API.
type Config struct {
	AdminKeyHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// Service issues and validates admin session tokens.
type Service interface {
	// Enabled reports whether an admin credential is configured at all.
	Enabled() bool
	// IssueToken verifies the admin key and returns a signed session token
	// with its expiry.
	IssueToken(adminKey string) (string, time.Time, error)
	// ValidateToken checks signature, expiry and subject of a session token.
	ValidateToken(token string) error
}

type service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService wires the auth domain.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &service{cfg: cfg, logger: logger.With("component", "auth.service")}
}

func (s *service) Enabled() bool {
	return strings.TrimSpace(s.cfg.AdminKeyHash) != ""
}

func (s *service) IssueToken(adminKey string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, apperrors.Wrap(apperrors.CodeUnauthorized, "admin api is disabled", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminKeyHash), []byte(adminKey)); err != nil {
		s.logger.Warn("admin key rejected")
		return "", time.Time{}, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid admin key", nil)
	}

	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(apperrors.CodeUnauthorized, "sign session token", err)
	}
	return token, expiresAt, nil
}

func (s *service) ValidateToken(token string) error {
	if !s.Enabled() {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "admin api is disabled", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "unexpected signing method", nil)
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "invalid session token", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != tokenSubject {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "invalid session token", nil)
	}
	return nil
}

// HashAdminKey derives a bcrypt hash suitable for AdminKeyHash. Used by
// deployment tooling, never at request time.
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var _ Service = (*service)(nil)

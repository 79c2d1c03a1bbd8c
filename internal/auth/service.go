// Package auth checks the configured login credential and issues and
// verifies the bearer tokens that guard the files endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filedrop/gateway/internal/config"
	"github.com/filedrop/gateway/internal/errs"
)

// DefaultTokenTTL applies when the configuration leaves the lifetime unset.
const DefaultTokenTTL = time.Hour

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = errs.New(errs.KindUnauthorized, "invalid credentials")

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = errs.New(errs.KindUnauthorized, "invalid or expired token")

// Identity is the authenticated principal carried in a token.
type Identity struct {
	Email string
}

// Claims are the JWT claims issued on login.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service holds the single accepted credential and the signing key.
type Service struct {
	cfg    config.AuthConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new auth Service.
func NewService(cfg config.AuthConfig, logger *slog.Logger) *Service {
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = DefaultTokenTTL
	}
	return &Service{cfg: cfg, logger: logger, now: time.Now}
}

// Validate reports whether email and password both match the configured
// credential exactly. Both comparisons always run.
func (s *Service) Validate(email, password string) (Identity, bool) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.Email))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password))
	if emailOK&passOK != 1 {
		return Identity{}, false
	}
	return Identity{Email: s.cfg.Email}, true
}

// Login validates the credential and returns a signed token for it.
func (s *Service) Login(email, password string) (string, error) {
	id, ok := s.Validate(email, password)
	if !ok {
		s.logger.Warn("login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(id)
	if err != nil {
		return "", err
	}
	s.logger.Info("login succeeded", slog.String("email", id.Email))
	return token, nil
}

// IssueToken signs an HS256 token for id that expires after the configured TTL.
func (s *Service) IssueToken(id Identity) (string, error) {
	now := s.now()
	claims := Claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ExpiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses raw and returns the identity it was issued for.
func (s *Service) VerifyToken(raw string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("token expired")
		}
		return Identity{}, ErrInvalidToken
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	if email == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Email: email}, nil
}

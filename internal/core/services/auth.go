// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthConfig configures token issuing.
type AuthConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

type authClaims struct {
	UserID    int64       `json:"user_id"`
	Role      domain.Role `json:"role"`
	TokenType string      `json:"typ"`
	jwt.RegisteredClaims
}

// AuthService issues HS256 access and refresh tokens and keeps a list of
// revoked token ids.
type AuthService struct {
	store  ports.Store
	cache  ports.CacheRepository
	cfg    AuthConfig
	now    func() time.Time
	logger *slog.Logger
}

var (
	_ ports.AuthService  = (*AuthService)(nil)
	_ ports.TokenJanitor = (*AuthService)(nil)
)

// NewAuthService creates a new auth service
func NewAuthService(store ports.Store, cache ports.CacheRepository, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		store:  store,
		cache:  cache,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With(slog.String("service", "auth")),
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if n := len(name); n < 2 || n > 100 {
		return nil, domain.NewValidation("name", "must be between 2 and 100 characters")
	}
	email = domain.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidation("email", "must be a valid email address")
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.NewValidation("password", fmt.Sprintf("must be at least %d characters", domain.MinPasswordLength))
	}
	if role == "" {
		role = domain.RolePharmacist
	}
	if role != domain.RoleAdmin && role != domain.RolePharmacist {
		return nil, domain.NewValidation("role", "must be admin or pharmacist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflict("email %s is already registered", email)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", u.ID),
		slog.String("role", string(u.Role)))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	u, err := s.store.Users().GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Unauthorized("invalid credentials")
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", u.ID))
	return s.issue(u.ID, u.Role)
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.verify(ctx, refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	u, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("unknown user")
		}
		return nil, err
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issue(u.ID, u.Role)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "token revoked", slog.Int64("user_id", claims.UserID))
	return nil
}

// Authenticate verifies an access token and returns its identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.verify(ctx, token, tokenTypeAccess)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{ID: claims.UserID, Role: claims.Role}, nil
}

func (s *AuthService) Me(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *AuthService) issue(userID int64, role domain.Role) (*domain.TokenPair, error) {
	now := s.now()
	access, accessExp, err := s.sign(userID, role, tokenTypeAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.sign(userID, role, tokenTypeRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
		TokenType:    "Bearer",
	}, nil
}

func (s *AuthService) sign(userID int64, role domain.Role, typ string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := authClaims{
		UserID:    userID,
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *AuthService) parse(token string) (*authClaims, error) {
	if token == "" {
		return nil, domain.Unauthorized("missing token")
	}
	claims := &authClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.Unauthorized("token expired")
		}
		return nil, domain.Unauthorized("invalid token")
	}
	if claims.ID == "" || claims.UserID <= 0 {
		return nil, domain.Unauthorized("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) verify(ctx context.Context, token, typ string) (*authClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != typ {
		return nil, domain.Unauthorized("wrong token type")
	}
	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.Unauthorized("token revoked")
	}
	return claims, nil
}

// isRevoked consults the cache first and falls back to the database, which
// stays authoritative when the cache was flushed.
func (s *AuthService) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	hit, err := s.cache.Exists(ctx, ports.BuildKey(ports.PrefixRevokedToken, tokenID))
	if err == nil && hit {
		return true, nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "revocation cache unavailable",
			slog.String("error", err.Error()))
	}

	revoked, err := s.store.RevokedTokens().IsRevoked(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

func (s *AuthService) revoke(ctx context.Context, claims *authClaims) error {
	exp := claims.ExpiresAt.Time
	if err := s.store.RevokedTokens().Revoke(ctx, claims.ID, exp); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.SetWithTTL(ctx, ports.BuildKey(ports.PrefixRevokedToken, claims.ID), true, ttl); err != nil {
		s.logger.WarnContext(ctx, "failed to cache revoked token",
			slog.String("error", err.Error()))
	}
	return nil
}

// PurgeRevoked deletes revocations whose tokens have expired anyway.
func (s *AuthService) PurgeRevoked(ctx context.Context) (int64, error) {
	n, err := s.store.RevokedTokens().DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	return n, nil
}

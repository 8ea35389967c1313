package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/blacklist"
	"github.com/nkiryanov/taskboard/internal/models"
)

// Token types carried in the signed payload. A refresh token presented
// where an access token is expected must fail, and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const (
	defaultAccessTokenTTL  = 30 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"uid"`
	TokenType string `json:"typ"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set then default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Revoke a refresh token once it has been exchanged for a new access
	// token. Off means a refresh token stays usable until natural expiry.
	BlacklistAfterRotation bool
}

type TokenManager struct {
	// Secret key to sign token payloads
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Revoke refresh tokens on rotation
	blacklistAfterRotation bool

	// Revocation store, may be nil
	// Nil means revocation is not configured: Revoke silently succeeds
	// and no blacklist check happens on refresh
	blacklist blacklist.Store
}

func New(cfg Config, bl blacklist.Store) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:                    cfg.SecretKey,
		alg:                    jwt.GetSigningMethod(cfg.Alg),
		accessTTL:              cfg.AccessTTL,
		refreshTTL:             cfg.RefreshTTL,
		blacklistAfterRotation: cfg.BlacklistAfterRotation,
		blacklist:              bl,
	}, nil
}

// GeneratePair issues a signed access and refresh token for the user
func (m *TokenManager) GeneratePair(user models.User) (models.TokenPair, error) {
	now := time.Now().Truncate(time.Second)

	access, err := m.issue(user.ID, TypeAccess, now, m.accessTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	refresh, err := m.issue(user.ID, TypeRefresh, now, m.refreshTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *TokenManager) issue(userID int64, tokenType string, now time.Time, ttl time.Duration) (models.IssuedToken, error) {
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID:    userID,
			TokenType: tokenType,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, err
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// ParseAccess validates an access token and returns the user id it is bound to
func (m *TokenManager) ParseAccess(access string) (int64, error) {
	claims, err := m.parse(access, TypeAccess)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}

// parse validates signature, expiry and token type
func (m *TokenManager) parse(tokenString string, wantType string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("error while parsing token. Err: %w", apperrors.ErrTokenExpired)
	case err != nil:
		return nil, fmt.Errorf("error while parsing token. Err: %w", apperrors.ErrTokenInvalid)
	case claims.TokenType != wantType:
		return nil, fmt.Errorf("unexpected token type %q. Err: %w", claims.TokenType, apperrors.ErrTokenInvalid)
	}

	return claims, nil
}

// Refresh exchanges a valid refresh token for a new access token.
// The refresh token itself stays valid until natural expiry unless
// BlacklistAfterRotation is on.
func (m *TokenManager) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	claims, err := m.parse(refresh, TypeRefresh)
	if err != nil {
		return models.IssuedToken{}, err
	}

	if m.blacklist != nil {
		revoked, err := m.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return models.IssuedToken{}, fmt.Errorf("blacklist check failed. Err: %w", err)
		}
		if revoked {
			return models.IssuedToken{}, apperrors.ErrTokenRevoked
		}
	}

	access, err := m.issue(claims.UserID, TypeAccess, time.Now().Truncate(time.Second), m.accessTTL)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	if m.blacklistAfterRotation && m.blacklist != nil {
		err := m.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
		if err != nil {
			return models.IssuedToken{}, fmt.Errorf("error while revoking rotated token. Err: %w", err)
		}
	}

	return access, nil
}

// Revoke blacklists a refresh token so it can't be exchanged again.
// Best effort: with no blacklist configured this is a silent no-op.
// Safe to call repeatedly with the same token.
func (m *TokenManager) Revoke(ctx context.Context, refresh string) error {
	if m.blacklist == nil {
		return nil
	}

	claims, err := m.parse(refresh, TypeRefresh)
	if err != nil {
		// Expired or garbage token: nothing worth remembering
		return nil
	}

	return m.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

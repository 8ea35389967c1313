package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/logger"
	"github.com/nkiryanov/taskboard/internal/models"
)

// Credential store the gateway delegates identity operations to
type credentialStore interface {
	Register(ctx context.Context, username string, email string, password string) (models.User, error)
	Verify(ctx context.Context, username string, password string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// Manager to issue, verify and revoke token pairs
type tokenManager interface {
	GeneratePair(user models.User) (models.TokenPair, error)
	ParseAccess(access string) (int64, error)
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)
	Revoke(ctx context.Context, refresh string) error
}

// AuthService orchestrates registration, login, refresh and logout.
// It holds no state of its own.
type AuthService struct {
	users  credentialStore
	tokens tokenManager
	logger logger.Logger
}

func NewService(users credentialStore, tokens tokenManager, l logger.Logger) (*AuthService, error) {
	if users == nil || tokens == nil {
		return nil, errors.New("credential store and token manager must not be nil")
	}
	if l == nil {
		l = logger.NewNoOp()
	}

	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: l,
	}, nil
}

// Register creates a user after checking the password confirmation.
// The mismatch check happens here so the credential store never sees
// a password the caller may have mistyped.
func (s *AuthService) Register(ctx context.Context, username string, email string, password string, passwordConfirm string) (models.User, error) {
	if password != passwordConfirm {
		return models.User{}, apperrors.ErrPasswordMismatch
	}

	return s.users.Register(ctx, username, email, password)
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	user, err := s.users.Verify(ctx, username, password)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new access token.
// No credentials required.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	return s.tokens.Refresh(ctx, refresh)
}

// Logout revokes the refresh token if one was provided.
// It never fails from the caller's point of view: whether revocation is
// actually enforced must not leak through the logout response.
func (s *AuthService) Logout(ctx context.Context, refresh string) {
	if refresh == "" {
		return
	}

	if err := s.tokens.Revoke(ctx, refresh); err != nil {
		s.logger.Warn("refresh token revocation failed", "error", err.Error())
	}
}

// UserFromToken resolves an access token into the user it was issued for
func (s *AuthService) UserFromToken(ctx context.Context, access string) (models.User, error) {
	userID, err := s.tokens.ParseAccess(access)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Token is formally valid but its user is gone
			return models.User{}, apperrors.ErrTokenInvalid
		}
		return models.User{}, err
	}

	return user, nil
}

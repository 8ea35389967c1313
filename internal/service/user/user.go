package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
)

// Credential store: the only place that creates users and checks passwords.
// Passwords never leave this package in cleartext.
type UserService struct {
	hasher   PasswordHasher
	policy   PasswordPolicy
	userRepo repository.UserRepo
}

func NewService(hasher PasswordHasher, policy PasswordPolicy, userRepo repository.UserRepo) *UserService {
	if hasher == nil {
		hasher = DefaultHasher
	}
	if policy == nil {
		policy = DefaultPolicy{}
	}

	return &UserService{
		hasher:   hasher,
		policy:   policy,
		userRepo: userRepo,
	}
}

// Register creates a user with the hashed password.
// Usernames are unique byte-for-byte: "Alice" and "alice" are two users.
func (s *UserService) Register(ctx context.Context, username string, email string, password string) (models.User, error) {
	var user models.User

	if err := s.policy.Validate(username, password); err != nil {
		return user, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err = s.userRepo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return user, err
	}

	return user, nil
}

// Verify checks the username and password and returns the matching user.
// Unknown user and wrong password are indistinguishable to the caller.
func (s *UserService) Verify(ctx context.Context, username string, password string) (models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Burn comparable time so a missing user can't be told apart
			// from a wrong password by response latency
			_ = s.hasher.Compare(dummyHash, password)
			return models.User{}, apperrors.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return models.User{}, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID returns the user for an already established identity
func (s *UserService) GetByID(ctx context.Context, id int64) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// Bcrypt hash of an unguessable throwaway value, used only to equalize
// timing in Verify when the username does not exist
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

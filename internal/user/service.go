package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-pitchside/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/utilities"
)

// IDSource hands out unique user ids.
type IDSource interface {
	NewID() string
}

// UserService is the credential store: it owns user creation and lookup.
type UserService struct {
	repo   *userrepo.UserRepo
	hasher PasswordHasher
	ids    IDSource
}

func NewUserService(store database.Store, hasher PasswordHasher, ids IDSource) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: DefaultCost}
	}
	if ids == nil {
		ids = utilities.NewIDGenerator(utilities.NodeFromEnv())
	}
	return &UserService{repo: userrepo.NewUserRepo(store), hasher: hasher, ids: ids}
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
	ErrEmptyUsername = errors.New("username required")
)

// Hasher exposes the password hasher so token hashing can share it.
func (s *UserService) Hasher() PasswordHasher { return s.hasher }

// CreateUser hashes password and persists a new user under a fresh id.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*entity.User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{ID: s.ids.NewID(), Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateUsername) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

// FindByUsername returns ErrUserNotFound when no user has that username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return mapNotFound(s.repo.GetByUsername(ctx, username))
}

// FindByID returns ErrUserNotFound when no user has that id.
func (s *UserService) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return mapNotFound(s.repo.GetByID(ctx, id))
}

func mapNotFound(u *entity.User, err error) (*entity.User, error) {
	if errors.Is(err, userrepo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

package repo

import (
	"context"
	"errors"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepo provides data access for the users collection.
type UserRepo struct {
	store database.Store
}

func NewUserRepo(store database.Store) *UserRepo { return &UserRepo{store: store} }

// Create appends u unless its username is taken. The check and the write
// happen in one atomic update, which is what keeps usernames unique.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return database.UpdateCollection(ctx, r.store, database.CollectionUsers, func(users []entity.User) ([]entity.User, error) {
		for _, existing := range users {
			if existing.Username == u.Username {
				return nil, ErrDuplicateUsername
			}
		}
		return append(users, *u), nil
	})
}

// GetByUsername fetches by exact (case-sensitive) username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(ctx, func(u *entity.User) bool { return u.Username == username })
}

// GetByID fetches by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(ctx, func(u *entity.User) bool { return u.ID == id })
}

// List returns every stored user.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	return database.ReadCollection[entity.User](ctx, r.store, database.CollectionUsers)
}

func (r *UserRepo) find(ctx context.Context, match func(*entity.User) bool) (*entity.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/event/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

type MatchRepo struct {
	store database.Store
}

func NewMatchRepo(store database.Store) *MatchRepo {
	return &MatchRepo{store: store}
}

func (r *MatchRepo) List(ctx context.Context) ([]entity.Match, error) {
	return database.ReadCollection[entity.Match](ctx, r.store, database.CollectionEvents)
}

func (r *MatchRepo) Seed(ctx context.Context, matches []entity.Match) error {
	return database.SeedCollection(ctx, r.store, database.CollectionEvents, matches)
}

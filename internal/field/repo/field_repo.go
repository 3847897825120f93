package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

// Repo is the data access for the fields collection.
type Repo struct {
	store database.Store
}

func NewRepo(store database.Store) *Repo {
	return &Repo{store: store}
}

func (r *Repo) List(ctx context.Context) ([]entity.Field, error) {
	return database.ReadCollection[entity.Field](ctx, r.store, database.CollectionFields)
}

// Seed writes fields only if the collection does not exist yet.
func (r *Repo) Seed(ctx context.Context, fields []entity.Field) error {
	return database.SeedCollection(ctx, r.store, database.CollectionFields, fields)
}

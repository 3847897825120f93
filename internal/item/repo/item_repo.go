package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

type ItemRepo struct {
	store database.Store
}

func NewItemRepo(store database.Store) *ItemRepo {
	return &ItemRepo{store: store}
}

func (r *ItemRepo) List(ctx context.Context) ([]entity.Stored, error) {
	return database.ReadCollection[entity.Stored](ctx, r.store, database.CollectionItems)
}

// Upsert replaces the item with the same id in place, or appends it.
func (r *ItemRepo) Upsert(ctx context.Context, it entity.Stored) error {
	return database.UpdateCollection(ctx, r.store, database.CollectionItems, func(items []entity.Stored) ([]entity.Stored, error) {
		for i := range items {
			if items[i].ID == it.ID {
				items[i] = it
				return items, nil
			}
		}
		return append(items, it), nil
	})
}

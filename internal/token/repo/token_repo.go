package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

// TokenRepo persists token records. Records are append-only.
type TokenRepo struct {
	store database.Store
}

func NewTokenRepo(store database.Store) *TokenRepo {
	return &TokenRepo{store: store}
}

func (r *TokenRepo) Append(ctx context.Context, rec token.Record) error {
	return database.UpdateCollection(ctx, r.store, database.CollectionTokens, func(recs []token.Record) ([]token.Record, error) {
		return append(recs, rec), nil
	})
}

func (r *TokenRepo) All(ctx context.Context) ([]token.Record, error) {
	return database.ReadCollection[token.Record](ctx, r.store, database.CollectionTokens)
}

// Candidates returns records in the hint's bucket, in insertion order.
// Records written without a hint are always included.
func (r *TokenRepo) Candidates(ctx context.Context, hint string) ([]token.Record, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]token.Record, 0, len(all))
	for _, rec := range all {
		if rec.Hint == "" || rec.Hint == hint {
			out = append(out, rec)
		}
	}
	return out, nil
}

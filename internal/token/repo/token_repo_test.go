package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

func TestTokenRepo_AppendAndCandidates(t *testing.T) {
	store, err := database.NewInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	r := NewTokenRepo(store)
	ctx := context.Background()

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	recs := []token.Record{
		{TokenHash: "h1", Username: "alice", Client: "web", Hint: "aa00"},
		{TokenHash: "h2", Username: "bob", Client: "web", Hint: "bb11"},
		{TokenHash: "h3", Username: "carol", Client: "web"},
		{TokenHash: "h4", Username: "alice", Client: "app", Hint: "aa00"},
	}
	for _, rec := range recs {
		require.NoError(t, r.Append(ctx, rec))
	}

	all, err = r.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs, all)

	got, err := r.Candidates(ctx, "aa00")
	require.NoError(t, err)
	assert.Equal(t, []token.Record{recs[0], recs[2], recs[3]}, got)

	got, err = r.Candidates(ctx, "ffff")
	require.NoError(t, err)
	assert.Equal(t, []token.Record{recs[2]}, got)
}

package field

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

func newSeeded(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	s := NewService(store)
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func ids(t *testing.T, s *Service, search string) []int {
	t.Helper()
	fields, err := s.List(context.Background(), search)
	require.NoError(t, err)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.ID)
	}
	return out
}

func TestList_Search(t *testing.T) {
	s := newSeeded(t)

	assert.Len(t, ids(t, s, ""), len(DefaultFields))
	assert.Equal(t, []int{2}, ids(t, s, `"Langholmen"`))
	assert.Equal(t, []int{2}, ids(t, s, "LÅNGHOLMEN"))
	assert.Equal(t, []int{4}, ids(t, s, "ostermalm"))
	assert.Equal(t, []int{5}, ids(t, s, "ringvagen"))
	assert.Len(t, ids(t, s, "stockholm"), len(DefaultFields))
	assert.Empty(t, ids(t, s, "göteborg"))
}

func TestGetAndIndex(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	f, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Kungsholmens IP", f.Name)

	_, err = s.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	idx, err := s.Index(ctx)
	require.NoError(t, err)
	assert.Len(t, idx, len(DefaultFields))
}

func TestList_EmptyStore(t *testing.T) {
	store, err := database.NewInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fields, err := NewService(store).List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

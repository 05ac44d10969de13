package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/federator/pkg/errors"
	"github.com/absmach/federator/pkg/storage"
)

func TestCreateGetUpdate(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "round-0", "first"))
	assert.ErrorIs(t, s.Create(ctx, "round-0", "again"), errors.ErrEntityExists)
	assert.ErrorIs(t, s.Create(ctx, "", "nothing"), errors.ErrEmptyKey)

	v, err := s.Get(ctx, "round-0")
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	_, err = s.Get(ctx, "round-9")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, s.Update(ctx, "round-0", "replaced"))
	assert.ErrorIs(t, s.Update(ctx, "round-9", "missing"), errors.ErrNotFound)

	v, err = s.Get(ctx, "round-0")
	require.NoError(t, err)
	assert.Equal(t, "replaced", v)
}

func TestListInsertionOrder(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, s.Create(ctx, fmt.Sprintf("round-%d", i), i))
	}

	values, total, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, []any{0, 1, 2, 3, 4}, values)

	values, total, err = s.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, []any{2, 3}, values)

	values, total, err = s.List(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Nil(t, values)
}

func TestDeleteKeepsOrder(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, s.Create(ctx, fmt.Sprintf("round-%d", i), i))
	}

	require.NoError(t, s.Delete(ctx, "round-1"))
	require.NoError(t, s.Delete(ctx, "round-1"))

	values, total, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Equal(t, []any{0, 2}, values)
}

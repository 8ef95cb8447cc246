package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, "lastFilter", "Motivation"))

	value, err := store.Get(ctx, "lastFilter")
	require.NoError(t, err)
	assert.Equal(t, "Motivation", value)
}

func TestMemory_GetMissing(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "missing")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, "quotes", "[]"))
	require.NoError(t, store.Delete(ctx, "quotes"))

	_, err := store.Get(ctx, "quotes")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete(ctx, "quotes"))
}

package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Key   string
	Value string
}

func TestUseCacheLoadsOnce(t *testing.T) {
	ctx := context.Background()
	c := NewCacheLocal(1000, time.Minute)

	calls := 0
	load := func() ([]entry, error) {
		calls++
		return []entry{{"backgroundImageUrl", "/bg.png"}}, nil
	}

	v, err := UseCache(ctx, c, "config:all", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "/bg.png", v[0].Value)

	v, err = UseCache(ctx, c, "config:all", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "/bg.png", v[0].Value)
	assert.Equal(t, 1, calls)

	require.NoError(t, Invalidate(ctx, c, "config:all"))
	_, err = UseCache(ctx, c, "config:all", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestUseCacheLoaderError(t *testing.T) {
	ctx := context.Background()
	c := NewCacheLocal(1000, time.Minute)
	boom := errors.New("boom")

	_, err := UseCache(ctx, c, "rewards:all", time.Minute, func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := UseCache(ctx, c, "rewards:all", time.Minute, func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/archdesk/internal/cache"
)

type item struct {
	Name  string
	Count int
}

var _ cache.Cache[item] = (*cache.Memory[item])(nil)
var _ cache.Cache[item] = (*cache.Redis[item])(nil)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory[item](0)

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", item{Name: "plano", Count: 2}))

	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, item{Name: "plano", Count: 2}, got)

	require.NoError(t, c.Delete(ctx, "a"))
	require.NoError(t, c.Delete(ctx, "missing"))

	_, ok, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c := cache.NewMemory[item](time.Minute)
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "a", item{Name: "x"}))

	now = now.Add(59 * time.Second)
	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_ExpiredEntriesAreDropped(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c := cache.NewMemory[item](time.Minute)
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "a", item{Name: "a"}))
	require.NoError(t, c.Set(ctx, "b", item{Name: "b"}))
	assert.Equal(t, 2, c.Len())

	now = now.Add(time.Minute)

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry removed on read")

	require.NoError(t, c.Set(ctx, "c", item{Name: "c"}))
	assert.Equal(t, 1, c.Len(), "unread expired entries swept on write")

	got, ok, err := c.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c", got.Name)
}

package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClockedCache() (*memoryCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return newMemoryCache(clock.Now), clock
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	cache, _ := newClockedCache()

	_, err := Lookup[item](cache, ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, cache.Fill(ctx, "k", item{Name: "a"}, time.Minute))
	got, err := Lookup[item](cache, ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	require.NoError(t, cache.Fill(ctx, "null", nil, time.Minute))
	_, err = Lookup[item](cache, ctx, "null")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestLookupList(t *testing.T) {
	ctx := context.Background()
	cache, _ := newClockedCache()

	require.NoError(t, cache.Fill(ctx, "list", []item{{Name: "a"}, {Name: "b"}}, time.Minute))
	got, err := LookupList[item](cache, ctx, "list")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Name)

	var empty []item
	require.NoError(t, cache.Fill(ctx, "empty", empty, time.Minute))
	got, err = LookupList[item](cache, ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFillDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	cache, clock := newClockedCache()

	require.NoError(t, cache.Fill(ctx, "k", item{Name: "first"}, time.Minute))
	require.NoError(t, cache.Fill(ctx, "k", item{Name: "second"}, time.Minute))

	got, err := Lookup[item](cache, ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	clock.Advance(time.Minute)
	_, err = Lookup[item](cache, ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, cache.Fill(ctx, "k", item{Name: "second"}, time.Minute))
	got, err = Lookup[item](cache, ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)
}

func TestInvalidateBlocksStaleFill(t *testing.T) {
	ctx := context.Background()
	cache, clock := newClockedCache()

	require.NoError(t, cache.Fill(ctx, "k", item{Name: "old"}, time.Hour))
	require.NoError(t, cache.Invalidate(ctx, "k", "other"))

	_, err := Lookup[item](cache, ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	// a reader that loaded the document before the invalidation
	require.NoError(t, cache.Fill(ctx, "k", item{Name: "old"}, time.Hour))
	_, err = Lookup[item](cache, ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	clock.Advance(INVALIDATION_TTL)
	require.NoError(t, cache.Fill(ctx, "k", item{Name: "new"}, time.Hour))
	got, err := Lookup[item](cache, ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
}

func TestDisabledAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	cache := Disabled()

	require.NoError(t, cache.Fill(ctx, "k", item{Name: "a"}, time.Minute))
	_, err := Lookup[item](cache.Cache, ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, cache.Invalidate(ctx, "k"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:abc", PostKey("abc"))
	assert.Equal(t, "posts:author:u1", AuthorPostsKey("u1"))
	assert.Equal(t, "user:u1", UserKey("u1"))
	assert.Equal(t, "posts:all", AllPostsKey())
}

package cart

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreCRUD(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, memCart("a")))
	require.Error(t, store.Create(ctx, memCart("a")), "duplicate id must be rejected")

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "a", got.ID)
	require.Len(t, got.Items, 1)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := store.Update(ctx, "a", func(c *Cart) error {
		c.Items[0].Quantity = 7
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, updated.Items[0].Quantity)

	got, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 7, got.Items[0].Quantity)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids)

	require.NoError(t, store.Delete(ctx, "a"))
	require.ErrorIs(t, store.Delete(ctx, "a"), ErrNotFound)
}

func TestRedisStoreUpdateMissingCart(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)

	_, err := store.Update(context.Background(), "missing", func(c *Cart) error {
		t.Fatal("fn must not run for a missing cart")
		return nil
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreUpdateErrorDiscardsChanges(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, memCart("a")))

	boom := context.Canceled
	_, err := store.Update(ctx, "a", func(c *Cart) error {
		c.Items[0].Quantity = 99
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, got.Items[0].Quantity)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, memCart("a")))

	mr.FastForward(30 * time.Second)
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	// the write inside Update refreshes the key's TTL
	_, err = store.Update(ctx, "a", func(c *Cart) error { return nil })
	require.NoError(t, err)

	mr.FastForward(45 * time.Second)
	_, err = store.Get(ctx, "a")
	require.NoError(t, err)

	mr.FastForward(time.Hour)
	_, err = store.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreListScansAllKeys(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, memCart("a")))
	require.NoError(t, store.Create(ctx, memCart("b")))
	require.NoError(t, store.Create(ctx, memCart("c")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

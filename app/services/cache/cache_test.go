package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopNeverHits(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "p", 0, []repositories.Offer{{StoreID: "s"}}))
	_, ok, err := c.Get(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "p"))
}

// TestRedisCache needs a reachable server in REDIS_TEST_ADDR.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedisWithClient(logger.NewNop(), rdb, time.Minute)
	ctx := context.Background()
	productID := uuid.NewString()
	t.Cleanup(func() { _ = rdb.Del(ctx, offersKey(productID), generationKey(productID)).Err() })

	_, ok, err := c.Get(ctx, productID)
	require.NoError(t, err)
	assert.False(t, ok)

	offers := []repositories.Offer{
		{StoreID: "s1", ProductID: productID, Amount: decimal.NewNullDecimal(decimal.RequireFromString("1.15"))},
		{StoreID: "s2", ProductID: productID},
	}
	gen, err := c.Generation(ctx, productID)
	require.NoError(t, err)
	assert.Zero(t, gen)
	require.NoError(t, c.Set(ctx, productID, gen, offers))

	got, ok, err := c.Get(ctx, productID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.True(t, got[0].Amount.Decimal.Equal(decimal.RequireFromString("1.15")))
	assert.False(t, got[1].Amount.Valid)

	require.NoError(t, rdb.Set(ctx, offersKey(productID), "not json", time.Minute).Err())
	_, ok, err = c.Get(ctx, productID)
	require.NoError(t, err)
	assert.False(t, ok, "undecodable entries count as a miss")

	require.NoError(t, c.Set(ctx, productID, gen, offers))
	require.NoError(t, c.Invalidate(ctx, productID))
	_, ok, err = c.Get(ctx, productID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, productID, gen, offers))
	_, ok, err = c.Get(ctx, productID)
	require.NoError(t, err)
	assert.False(t, ok, "a fill loaded before the invalidation is dropped")

	gen, err = c.Generation(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	require.NoError(t, c.Set(ctx, productID, gen, offers))
	_, ok, err = c.Get(ctx, productID)
	require.NoError(t, err)
	assert.True(t, ok)
}

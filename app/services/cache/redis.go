package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
)

// Both keys of a product share a hash tag so WATCH works on a cluster.
func offersKey(productID string) string { return "comparison:{" + productID + "}:offers" }

func generationKey(productID string) string { return "comparison:{" + productID + "}:gen" }

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisCache struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewRedis connects and pings before returning.
func NewRedis(log *logger.Logger, opts RedisOptions) (ComparisonCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisWithClient(log, rdb, opts.TTL), nil
}

func NewRedisWithClient(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) ComparisonCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCache{
		log: log.With("service", "ComparisonCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, productID string) ([]repositories.Offer, bool, error) {
	raw, err := c.rdb.Get(ctx, offersKey(productID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var offers []repositories.Offer
	if err := json.Unmarshal(raw, &offers); err != nil {
		c.log.Warn("dropping undecodable cache entry", "productId", productID, "error", err)
		_ = c.rdb.Del(ctx, offersKey(productID)).Err()
		return nil, false, nil
	}
	return offers, true, nil
}

func (c *redisCache) Generation(ctx context.Context, productID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(productID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisCache) Set(ctx context.Context, productID string, gen int64, offers []repositories.Offer) error {
	raw, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	genKey := generationKey(productID)
	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != gen {
			c.log.Debug("skipping stale cache fill", "productId", productID, "generation", gen, "current", cur)
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, offersKey(productID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, goredis.TxFailedErr) {
		c.log.Debug("skipping cache fill raced by invalidation", "productId", productID)
		return nil
	}
	return err
}

// Invalidate bumps each generation before dropping the entry, so a fill that
// loaded before the bump can no longer store its rows.
func (c *redisCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := c.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, generationKey(id))
			pipe.Del(ctx, offersKey(id))
		}
		return nil
	})
	return err
}

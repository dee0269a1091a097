package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int, prefix string) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: prefix,
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) verKey(k string) string { return k + ":ver" }

// errStale 回源期间 key 被失效过，本次结果不写回
var errStale = errors.New("cache: stale load")

// GetOrLoad 读缓存，未命中时合并并发回源并写回。
// 回源前记下版本号，写回时用 WATCH 校验；期间有 Delete 则放弃写回
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.key(key)
	b, err := c.RDB.Get(ctx, k).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		// redis 不可用时直接回源
		return load(ctx)
	}
	v, err, _ := c.sf.Do(k, func() (any, error) {
		ver, verErr := c.version(ctx, k)
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if verErr == nil {
			_ = c.setIfVersion(ctx, k, ver, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) version(ctx context.Context, k string) (int64, error) {
	n, err := c.RDB.Get(ctx, c.verKey(k)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *Cache) setIfVersion(ctx context.Context, k string, ver int64, b []byte, ttl time.Duration) error {
	vk := c.verKey(k)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != ver {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, b, ttl)
			return nil
		})
		return err
	}, vk)
}

// Delete 失效指定 key，并推进版本号让进行中的回源放弃写回
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			full := c.key(k)
			p.Incr(ctx, c.verKey(full))
			p.Del(ctx, full)
		}
		return nil
	})
	return err
}

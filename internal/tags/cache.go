package tags

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

const (
	tagIndexKey = "qa:tags:index"
	tagGenKey   = "qa:tags:gen"
)

// Cache holds the tag index between writes. Misses and failures fall
// through to the database, so a Cache never decides correctness.
//
// Every Invalidate bumps a generation. GetTagIndex reports the generation
// current at the time of a miss, and SetTagIndex stores an index only while
// that generation is still current, so an index read before a write can
// never be stored after the write's invalidation.
type Cache interface {
	GetTagIndex(ctx context.Context) (index []views.TagView, gen int64, ok bool)
	SetTagIndex(ctx context.Context, gen int64, index []views.TagView)
	Invalidate(ctx context.Context)
}

type noopCache struct{}

// NoopCache never hits.
func NoopCache() Cache { return noopCache{} }

func (noopCache) GetTagIndex(context.Context) ([]views.TagView, int64, bool) { return nil, 0, false }
func (noopCache) SetTagIndex(context.Context, int64, []views.TagView)       {}
func (noopCache) Invalidate(context.Context)                                {}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *RedisCache) generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, tagGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetTagIndex reads the generation before the index, so a miss never
// reports a generation newer than the data the caller goes on to read.
func (c *RedisCache) GetTagIndex(ctx context.Context) ([]views.TagView, int64, bool) {
	gen, err := c.generation(ctx, c.client)
	if err != nil {
		log.Printf("tag index generation read failed: %v", err)
		return nil, -1, false
	}

	raw, err := c.client.Get(ctx, tagIndexKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("tag index cache read failed: %v", err)
		}
		return nil, gen, false
	}

	var index []views.TagView
	if err := json.Unmarshal(raw, &index); err != nil {
		log.Printf("tag index cache entry unreadable: %v", err)
		return nil, gen, false
	}
	return index, gen, true
}

// SetTagIndex stores index only if no invalidation happened since gen was
// read. The generation key is watched, so an Invalidate racing with the
// write aborts it.
func (c *RedisCache) SetTagIndex(ctx context.Context, gen int64, index []views.TagView) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(index)
	if err != nil {
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, tagIndexKey, raw, c.ttl)
			return nil
		})
		return err
	}, tagGenKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		log.Printf("tag index cache write failed: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, tagGenKey)
		pipe.Del(ctx, tagIndexKey)
		return nil
	})
	if err != nil {
		log.Printf("tag index cache invalidation failed: %v", err)
	}
}

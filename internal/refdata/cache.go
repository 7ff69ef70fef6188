package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lenderlink-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheVersionKey = "refdata:version"

// DefaultCacheTTL bounds staleness even if an invalidation is missed.
const DefaultCacheTTL = 5 * time.Minute

// CachedStore is a read-through Redis cache in front of a Store. Reference
// data changes rarely relative to matching, so entries live until the TTL
// expires or an operator edit bumps the version counter (which changes every
// key prefix at once). Redis being down only costs the caching: reads fall
// through to the inner store.
type CachedStore struct {
	Inner Store
	Rdb   *redis.Client
	TTL   time.Duration
}

// Invalidate bumps the version counter so all cached entries go stale.
// Called after operator edits to lenders, programs, criteria, or pricing.
func (c *CachedStore) Invalidate(ctx context.Context) {
	if err := c.Rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to bump refdata cache version")
	}
}

func (c *CachedStore) keyPrefix(ctx context.Context) string {
	ver, err := c.Rdb.Get(ctx, cacheVersionKey).Result()
	if err != nil {
		ver = "0"
	}
	return "refdata:v" + ver + ":"
}

func (c *CachedStore) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultCacheTTL
}

// readThrough returns the cached value at key, or loads, caches, and returns
// it. Cache errors are logged and otherwise ignored.
func readThrough[T any](ctx context.Context, c *CachedStore, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	key = c.keyPrefix(ctx) + key

	if b, err := c.Rdb.Get(ctx, key).Bytes(); err == nil {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		log.Warn().Str("key", key).Msg("Discarding undecodable refdata cache entry")
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.Rdb.Set(ctx, key, b, c.ttl()).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache refdata")
		}
	}
	return out, nil
}

func (c *CachedStore) ListActiveLenders(ctx context.Context) ([]models.Lender, error) {
	return readThrough(ctx, c, "lenders:active", c.Inner.ListActiveLenders)
}

func (c *CachedStore) ListActivePrograms(ctx context.Context, lenderID uuid.UUID) ([]models.Program, error) {
	return readThrough(ctx, c, "programs:"+lenderID.String(), func(ctx context.Context) ([]models.Program, error) {
		return c.Inner.ListActivePrograms(ctx, lenderID)
	})
}

func (c *CachedStore) ListCriteria(ctx context.Context, programID uuid.UUID, version int) ([]models.ProgramCriterion, error) {
	return readThrough(ctx, c, programKey("criteria", programID, version), func(ctx context.Context) ([]models.ProgramCriterion, error) {
		return c.Inner.ListCriteria(ctx, programID, version)
	})
}

func (c *CachedStore) ListLenderStates(ctx context.Context, lenderID uuid.UUID) ([]models.LenderState, error) {
	return readThrough(ctx, c, "states:"+lenderID.String(), func(ctx context.Context) ([]models.LenderState, error) {
		return c.Inner.ListLenderStates(ctx, lenderID)
	})
}

func (c *CachedStore) ListProgramMetros(ctx context.Context, programID uuid.UUID, version int) ([]models.ProgramMetro, error) {
	return readThrough(ctx, c, programKey("metros", programID, version), func(ctx context.Context) ([]models.ProgramMetro, error) {
		return c.Inner.ListProgramMetros(ctx, programID, version)
	})
}

func (c *CachedStore) ListPricingRows(ctx context.Context, programID uuid.UUID, version int) ([]models.PricingMatrixRow, error) {
	return readThrough(ctx, c, programKey("pricing", programID, version), func(ctx context.Context) ([]models.PricingMatrixRow, error) {
		return c.Inner.ListPricingRows(ctx, programID, version)
	})
}

func programKey(kind string, programID uuid.UUID, version int) string {
	return fmt.Sprintf("%s:%s:%d", kind, programID, version)
}

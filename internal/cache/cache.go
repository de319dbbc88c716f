package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// DefaultTTL bounds how long a computed outlook stays cached. Entries are
// additionally clipped to the end of their calendar day.
const DefaultTTL = 24 * time.Hour

// Store is the backing byte store for cached outlook payloads. Redis in
// production, the in-memory store in tests and redis-less deployments.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OutlookCache memoizes computed outlooks per (user, date). Concurrent first
// access for the same key is collapsed to a single computation; later
// callers reuse the in-flight result.
type OutlookCache struct {
	log   *logger.Logger
	store Store
	group singleflight.Group
	ttl   time.Duration

	// now is swappable in tests
	now func() time.Time
}

func NewOutlookCache(baseLog *logger.Logger, store Store, ttl time.Duration) *OutlookCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &OutlookCache{
		log:   baseLog.With("component", "OutlookCache"),
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

func Key(userID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("outlook:%s:%s", userID, types.DateKey(date))
}

type cacheResult struct {
	payload *types.DailyOutlookPayload
	hit     bool
}

// GetOrCompute returns the cached payload when present and unexpired,
// otherwise runs compute once and stores the result. The second return
// value reports whether the payload came from the cache.
func (c *OutlookCache) GetOrCompute(ctx context.Context, userID uuid.UUID, date time.Time, compute func(ctx context.Context) (*types.DailyOutlookPayload, error)) (*types.DailyOutlookPayload, bool, error) {
	key := Key(userID, date)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if raw, ok, getErr := c.store.Get(ctx, key); getErr != nil {
			c.log.Warn("cache read failed, recomputing", "key", key, "error", getErr)
		} else if ok {
			var payload types.DailyOutlookPayload
			if umErr := json.Unmarshal(raw, &payload); umErr == nil {
				return cacheResult{payload: &payload, hit: true}, nil
			}
			c.log.Warn("cache entry corrupt, recomputing", "key", key)
		}

		payload, computeErr := compute(ctx)
		if computeErr != nil {
			return nil, computeErr
		}

		raw, mErr := json.Marshal(payload)
		if mErr != nil {
			c.log.Warn("cache marshal failed, serving uncached", "key", key, "error", mErr)
			return cacheResult{payload: payload}, nil
		}
		if setErr := c.store.Set(ctx, key, raw, c.entryTTL(date)); setErr != nil {
			c.log.Warn("cache write failed, serving uncached", "key", key, "error", setErr)
		}
		return cacheResult{payload: payload}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(cacheResult)
	return res.payload, res.hit, nil
}

// Invalidate drops the entry for a user+date, such as after a relationship
// status or tier change mid-day.
func (c *OutlookCache) Invalidate(ctx context.Context, userID uuid.UUID, date time.Time) error {
	key := Key(userID, date)
	c.group.Forget(key)
	return c.store.Delete(ctx, key)
}

// entryTTL clips the default TTL so an entry never outlives its calendar
// day.
func (c *OutlookCache) entryTTL(date time.Time) time.Duration {
	ttl := c.ttl
	endOfDay := types.DateOnly(date).AddDate(0, 0, 1)
	if until := endOfDay.Sub(c.now().UTC()); until > 0 && until < ttl {
		ttl = until
	}
	return ttl
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fixpoint/internal/domain"
)

const businessHoursKey = "fixpoint:calendar:business_hours"

// CalendarCache is a best-effort read-through cache for the business-hours
// rule set, which the availability resolver reads on every request. A nil
// receiver disables caching, so callers never need to branch on configuration.
type CalendarCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCalendarCache(rdb *redis.Client, ttl time.Duration) *CalendarCache {
	if rdb == nil {
		return nil
	}
	return &CalendarCache{rdb: rdb, ttl: ttl}
}

func (c *CalendarCache) GetBusinessHours(ctx context.Context) ([]domain.BusinessHours, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, businessHoursKey).Bytes()
	if err != nil {
		return nil, false
	}

	var hours []domain.BusinessHours
	if err := json.Unmarshal(raw, &hours); err != nil {
		return nil, false
	}

	return hours, true
}

func (c *CalendarCache) SetBusinessHours(ctx context.Context, hours []domain.BusinessHours) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(hours)
	if err != nil {
		return
	}

	c.rdb.Set(ctx, businessHoursKey, raw, c.ttl)
}

func (c *CalendarCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	c.rdb.Del(ctx, businessHoursKey)
}

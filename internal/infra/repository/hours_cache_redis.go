package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/models"
)

// HoursBackend is the store the cache sits in front of.
type HoursBackend interface {
	domain.HoursStore
	domain.HoursWriter
}

// CachedHoursStore keeps per-layer weekday lookups in redis. Writes go to the
// backend first and then drop the owner's seven cached days. A nil client
// turns the cache off.
type CachedHoursStore struct {
	next HoursBackend
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedHoursStore(next HoursBackend, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedHoursStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedHoursStore{next: next, rdb: rdb, ttl: ttl, log: log}
}

func hoursKey(layer domain.Layer, ownerID uint, day int) string {
	return fmt.Sprintf("hours:%s:%d:%d", layer, ownerID, day)
}

func (c *CachedHoursStore) cached(
	ctx context.Context,
	layer domain.Layer,
	ownerID uint,
	day int,
	load func() (domain.HoursLookup, error),
) (domain.HoursLookup, error) {

	if c.rdb == nil {
		return load()
	}

	key := hoursKey(layer, ownerID, day)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var hit domain.HoursLookup
		if jsonErr := json.Unmarshal(raw, &hit); jsonErr == nil {
			return hit, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("hours cache read failed", zap.String("key", key), zap.Error(err))
	}

	res, err := load()
	if err != nil {
		return res, err
	}

	if b, err := json.Marshal(res); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn("hours cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return res, nil
}

func (c *CachedHoursStore) invalidate(ctx context.Context, layer domain.Layer, ownerID uint) {
	if c.rdb == nil {
		return
	}

	keys := make([]string, 0, 7)
	for day := 0; day < 7; day++ {
		keys = append(keys, hoursKey(layer, ownerID, day))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("hours cache invalidate failed",
			zap.String("layer", string(layer)),
			zap.Uint("owner_id", ownerID),
			zap.Error(err),
		)
	}
}

func (c *CachedHoursStore) ProviderHours(ctx context.Context, providerID uint, day int) (domain.HoursLookup, error) {
	return c.cached(ctx, domain.LayerProvider, providerID, day, func() (domain.HoursLookup, error) {
		return c.next.ProviderHours(ctx, providerID, day)
	})
}

func (c *CachedHoursStore) ServiceHours(ctx context.Context, serviceID uint, day int) (domain.HoursLookup, error) {
	return c.cached(ctx, domain.LayerService, serviceID, day, func() (domain.HoursLookup, error) {
		return c.next.ServiceHours(ctx, serviceID, day)
	})
}

func (c *CachedHoursStore) StaffHours(ctx context.Context, staffID uint, day int) (domain.HoursLookup, error) {
	return c.cached(ctx, domain.LayerStaff, staffID, day, func() (domain.HoursLookup, error) {
		return c.next.StaffHours(ctx, staffID, day)
	})
}

func (c *CachedHoursStore) ReplaceProviderHours(ctx context.Context, providerID uint, rows []models.Availability) error {
	if err := c.next.ReplaceProviderHours(ctx, providerID, rows); err != nil {
		return err
	}
	c.invalidate(ctx, domain.LayerProvider, providerID)
	return nil
}

func (c *CachedHoursStore) ReplaceServiceHours(ctx context.Context, serviceID uint, rows []models.ServiceAvailability) error {
	if err := c.next.ReplaceServiceHours(ctx, serviceID, rows); err != nil {
		return err
	}
	c.invalidate(ctx, domain.LayerService, serviceID)
	return nil
}

func (c *CachedHoursStore) ReplaceStaffHours(ctx context.Context, staffID uint, rows []models.StaffAvailability) error {
	if err := c.next.ReplaceStaffHours(ctx, staffID, rows); err != nil {
		return err
	}
	c.invalidate(ctx, domain.LayerStaff, staffID)
	return nil
}

var _ HoursBackend = (*CachedHoursStore)(nil)

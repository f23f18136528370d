package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/paylist/payments-api/internal/metrics"
	"github.com/paylist/payments-api/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	scanCacheKey     = "payments:scan"
	paymentKeyPrefix = "payments:id:"

	scanCacheType    = "scan"
	paymentCacheType = "payment"
)

// CachedRepository wraps another PaymentRepository with a Redis read-through
// cache. Cache errors are never surfaced: a failed read falls through to the
// backing store and a failed write only logs, so semantics with Redis down
// are identical to running without the cache.
type CachedRepository struct {
	inner   PaymentRepository
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCachedRepository creates a cache layer over inner with the given TTL.
// metrics may be nil.
func NewCachedRepository(inner PaymentRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *CachedRepository {
	return &CachedRepository{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func paymentKey(id string) string {
	return paymentKeyPrefix + id
}

func (c *CachedRepository) recordHit(cacheType string) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(cacheType)
	}
}

func (c *CachedRepository) recordMiss(cacheType string) {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(cacheType)
	}
}

func (c *CachedRepository) ScanAll(ctx context.Context) ([]model.Payment, error) {
	data, err := c.client.Get(ctx, scanCacheKey).Bytes()
	if err == nil {
		var payments []model.Payment
		if err := json.Unmarshal(data, &payments); err == nil {
			c.recordHit(scanCacheType)
			return payments, nil
		}
		c.logger.Warn("Discarding unreadable cached scan", zap.Error(err))
	} else if err != redis.Nil {
		c.logger.Warn("Cache lookup failed", zap.Error(err))
	}
	c.recordMiss(scanCacheType)

	payments, err := c.inner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(payments); err == nil {
		if err := c.client.Set(ctx, scanCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache scan result", zap.Error(err))
		}
	}

	return payments, nil
}

func (c *CachedRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	data, err := c.client.Get(ctx, paymentKey(id)).Bytes()
	if err == nil {
		var payment model.Payment
		if err := json.Unmarshal(data, &payment); err == nil {
			c.recordHit(paymentCacheType)
			return &payment, nil
		}
		c.logger.Warn("Discarding unreadable cached payment", zap.String("id", id), zap.Error(err))
	} else if err != redis.Nil {
		c.logger.Warn("Cache lookup failed", zap.String("id", id), zap.Error(err))
	}
	c.recordMiss(paymentCacheType)

	payment, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		// Absent records are not cached; a later write to the store must
		// become visible on the next lookup.
		return nil, nil
	}

	if data, err := json.Marshal(payment); err == nil {
		if err := c.client.Set(ctx, paymentKey(id), data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache payment", zap.String("id", id), zap.Error(err))
		}
	}

	return payment, nil
}

// Invalidate drops the cached scan and, when id is non-empty, the cached
// record for that payment. Used by the change-event consumer.
func (c *CachedRepository) Invalidate(ctx context.Context, id string) error {
	keys := []string{scanCacheKey}
	if id != "" {
		keys = append(keys, paymentKey(id))
	}

	return c.client.Del(ctx, keys...).Err()
}

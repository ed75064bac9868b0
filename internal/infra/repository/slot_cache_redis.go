package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
)

// RedisSlotCache guarda os slots de um barbeiro+dia por um TTL curto.
// Cache é best-effort: erro de redis nunca derruba a requisição.
type RedisSlotCache struct {
	rdb  *redis.Client
	ttl  time.Duration
	step int
	log  *zap.Logger
}

func NewRedisSlotCache(rdb *redis.Client, ttl time.Duration, stepMinutes int, log *zap.Logger) *RedisSlotCache {
	return &RedisSlotCache{
		rdb:  rdb,
		ttl:  ttl,
		step: stepMinutes,
		log:  log,
	}
}

func (c *RedisSlotCache) key(barberID uint, date time.Time) string {
	return fmt.Sprintf("slots:%d:%s:%d", barberID, date.Format("2006-01-02"), c.step)
}

func (c *RedisSlotCache) Get(ctx context.Context, barberID uint, date time.Time) ([]domain.TimeSlot, bool) {
	raw, err := c.rdb.Get(ctx, c.key(barberID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("slot cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *RedisSlotCache) Set(ctx context.Context, barberID uint, date time.Time, slots []domain.TimeSlot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key(barberID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warn("slot cache set failed", zap.Error(err))
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, barberID uint, date time.Time) {
	if err := c.rdb.Del(ctx, c.key(barberID, date)).Err(); err != nil {
		c.log.Warn("slot cache invalidate failed", zap.Error(err))
	}
}

// NoopSlotCache é usado quando o redis não está configurado.
type NoopSlotCache struct{}

func (NoopSlotCache) Get(context.Context, uint, time.Time) ([]domain.TimeSlot, bool) { return nil, false }
func (NoopSlotCache) Set(context.Context, uint, time.Time, []domain.TimeSlot)        {}
func (NoopSlotCache) Invalidate(context.Context, uint, time.Time)                    {}

var (
	_ domain.SlotCache = (*RedisSlotCache)(nil)
	_ domain.SlotCache = NoopSlotCache{}
)

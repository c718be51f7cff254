// Package cache хранит занятые времена по датам в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Leganyst/grooming-booking/internal/config"
)

const keyPrefix = "booking:taken:"

// Версия даты живёт дольше любого списка, иначе после её истечения
// мог бы вернуться старый список под версией 0.
const versionTTL = 7 * 24 * time.Hour

// NewRedisClient подключается к Redis и проверяет соединение.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// SlotCache реализует booking.SlotCache. Для каждой даты хранится счётчик
// версии и JSON-список "HH:MM" под ключом с этой версией.
type SlotCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSlotCache(client redis.Cmdable, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func versionKey(date time.Time) string {
	return keyPrefix + "ver:" + date.Format(time.DateOnly)
}

func dataKey(date time.Time, version int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, date.Format(time.DateOnly), version)
}

func (c *SlotCache) version(ctx context.Context, date time.Time) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *SlotCache) Get(ctx context.Context, date time.Time) ([]string, int64, bool, error) {
	version, err := c.version(ctx, date)
	if err != nil {
		return nil, 0, false, fmt.Errorf("read slots version: %w", err)
	}

	data, err := c.client.Get(ctx, dataKey(date, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var taken []string
	if err := json.Unmarshal(data, &taken); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached slots: %w", err)
	}
	return taken, version, true, nil
}

// Set пишет список под переданной версией. Если дату уже инвалидировали,
// ключ никто не прочитает и он истечёт по TTL.
func (c *SlotCache) Set(ctx context.Context, date time.Time, version int64, taken []string) error {
	if taken == nil {
		taken = []string{}
	}
	data, err := json.Marshal(taken)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dataKey(date, version), data, c.ttl).Err()
}

func (c *SlotCache) Invalidate(ctx context.Context, date time.Time) error {
	key := versionKey(date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, versionTTL)
		return nil
	})
	return err
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusfest/eventhub-api/internal/config"
	"github.com/campusfest/eventhub-api/internal/domain"
)

const (
	eventListKey       = "eventhub:events:list"
	eventGenerationKey = "eventhub:events:generation"
)

// listKey scopes the cached listing to one generation. Invalidate bumps the
// generation, so a listing computed before the bump is written under a key
// that is never read again.
func listKey(generation uint64) string {
	return eventListKey + ":" + strconv.FormatUint(generation, 10)
}

// RedisEventCache keeps the serialized event listing for a short TTL. Every
// write to events or bookings invalidates it.
type RedisEventCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) *RedisEventCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &RedisEventCache{
		client: client,
		ttl:    ttl,
	}
}

// NewRedisClient connects and pings the server.
func NewRedisClient(conf *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	return client, nil
}

// GetEvents returns the listing cached for the current generation. The
// generation is returned even on a miss and must be handed back to
// SetEvents.
func (c *RedisEventCache) GetEvents(ctx context.Context) ([]domain.EventWithCount, uint64, bool, error) {
	generation, err := c.client.Get(ctx, eventGenerationKey).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("c.client.Get -> %w", err)
	}

	raw, err := c.client.Get(ctx, listKey(generation)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, generation, false, nil
		}

		return nil, generation, false, fmt.Errorf("c.client.Get -> %w", err)
	}

	var events []domain.EventWithCount
	if err = json.Unmarshal(raw, &events); err != nil {
		return nil, generation, false, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return events, generation, true, nil
}

// SetEvents stores a listing computed while generation was current.
func (c *RedisEventCache) SetEvents(ctx context.Context, generation uint64, events []domain.EventWithCount) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = c.client.Set(ctx, listKey(generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("c.client.Set -> %w", err)
	}

	return nil
}

func (c *RedisEventCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, eventGenerationKey).Err(); err != nil {
		return fmt.Errorf("c.client.Incr -> %w", err)
	}

	return nil
}

// NoopEventCache is used when no Redis is configured. It never hits.
type NoopEventCache struct{}

func (NoopEventCache) GetEvents(context.Context) ([]domain.EventWithCount, uint64, bool, error) {
	return nil, 0, false, nil
}

func (NoopEventCache) SetEvents(context.Context, uint64, []domain.EventWithCount) error { return nil }

func (NoopEventCache) Invalidate(context.Context) error { return nil }

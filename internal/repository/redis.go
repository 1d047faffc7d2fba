package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/locofvijay/room-reservation-service/internal/config"
)

const seenKeyPrefix = "payment_seen:"

// RedisSeenRepository remembers processed payment ids in Redis so duplicate
// queue deliveries can be skipped cheaply.
type RedisSeenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisSeenRepository(client *redis.Client, ttl time.Duration) *RedisSeenRepository {
	return &RedisSeenRepository{
		client: client,
		ttl:    ttl,
	}
}

// MarkSeen records the payment id and reports whether this was the first
// sighting. SetNX keeps check and set atomic on the Redis side.
func (r *RedisSeenRepository) MarkSeen(ctx context.Context, paymentID string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	first, err := r.client.SetNX(ctx, seenKeyPrefix+paymentID, "1", r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark payment as seen: %w", err)
	}
	return first, nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

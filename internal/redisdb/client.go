package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/Kosench/traced-url-shortener/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis client with the operations the record store needs.
type Client struct {
	client     *redis.Client
	keyBuilder *KeyBuilder
}

func NewRedisClient(cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, NewRedisError("connect", "", fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return NewFromClient(client, cfg.Namespace), nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client, namespace string) *Client {
	return &Client{
		client:     client,
		keyBuilder: NewKeyBuilder(namespace),
	}
}

func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, NewRedisError("incr", key, ErrInvalidKey)
	}

	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, NewRedisError("incr", key, err)
	}
	return n, nil
}

// HashWrite is one HSET inside a transaction.
type HashWrite struct {
	Key    string
	Values map[string]interface{}
}

// HSetTx applies all writes in a single MULTI/EXEC.
func (c *Client) HSetTx(ctx context.Context, writes ...HashWrite) error {
	if len(writes) == 0 {
		return nil
	}

	for _, w := range writes {
		if w.Key == "" {
			return NewRedisError("hset", w.Key, ErrInvalidKey)
		}
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			pipe.HSet(ctx, w.Key, w.Values)
		}
		return nil
	})
	if err != nil {
		return NewRedisError("multi", "", err)
	}

	return nil
}

func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return NewRedisError("close", "", err)
	}
	return nil
}

func (c *Client) Keys() *KeyBuilder {
	return c.keyBuilder
}

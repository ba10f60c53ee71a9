package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalogadmin/config"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "catalogadmin:session:"

// redisKV is the slice of the redis client the store needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore shares one session between machines, e.g. several gateway
// instances behind a load balancer.
type RedisStore struct {
	client redisKV
	key    string
	ttl    time.Duration
}

// NewRedisStore stores the blob under catalogadmin:session:<key>. A zero ttl
// never expires.
func NewRedisStore(client redisKV, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: redisKeyPrefix + key, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session from redis: %w", err)
	}
	return val, nil
}

func (r *RedisStore) Save(ctx context.Context, blob []byte) error {
	if err := r.client.Set(ctx, r.key, blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("saving session to redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clearing session in redis: %w", err)
	}
	return nil
}

// ConnectRedis 初始化Redis连接并测试
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Open builds the store selected by SESSION_BACKEND. The returned closer
// releases the redis connection, if any.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	switch cfg.SessionBackend {
	case "redis":
		client, err := ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.SessionKey, 0), client.Close, nil
	default:
		return NewFileStore(cfg.SessionFile, cfg.SessionKey), func() error { return nil }, nil
	}
}

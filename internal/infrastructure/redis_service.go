package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"registration-service/internal/config"
	"registration-service/internal/domain/entities"
)

const (
	pendingKeyPrefix = "pending:"
	tokenKeyPrefix   = "token:"
	profileKeyPrefix = "profile:"
)

// RedisService is the authoritative store for pending registrations and the
// cache for session tokens and profiles. Pending slots are keyed by email,
// so Redis enforces the single-slot invariant and TTL eviction for free.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	var client *redis.Client

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     10,
			MinIdleConns: 5,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisService{client: client}, nil
}

func (r *RedisService) Save(ctx context.Context, pending *entities.PendingRegistration, ttl time.Duration) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, pendingKeyPrefix+pending.Email, data, ttl).Err()
}

func (r *RedisService) Find(ctx context.Context, email string) (*entities.PendingRegistration, error) {
	data, err := r.client.Get(ctx, pendingKeyPrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var pending entities.PendingRegistration
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *RedisService) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, pendingKeyPrefix+email).Err()
}

func (r *RedisService) SetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, tokenKeyPrefix+token, userID, ttl).Err()
}

func (r *RedisService) GetToken(ctx context.Context, token string) (string, error) {
	result, err := r.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return result, nil
}

func (r *RedisService) SetProfile(ctx context.Context, userID string, user *entities.User, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, profileKeyPrefix+userID, data, ttl).Err()
}

func (r *RedisService) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	data, err := r.client.Get(ctx, profileKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var user entities.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RedisService) Close() error {
	return r.client.Close()
}

// internal/app/auth.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

// Auth gates report viewing behind per-student tokens kept in redis.
// The engine itself is auth-agnostic; this guards the HTTP surface.
type Auth struct {
	enabled     bool
	redis       *redis.Client
	keyTemplate string
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		keyTemplate: config.Auth.TokenKeyTemplate,
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func (a *Auth) ValidateToken(ctx context.Context, course, student, token string) error {
	if !a.enabled {
		return nil
	}

	if !strings.HasPrefix(token, tokenPrefix) {
		return fmt.Errorf("invalid token")
	}

	key := strings.NewReplacer(
		"{course}", course,
		"{student}", student,
	).Replace(a.keyTemplate)

	stored, err := a.redis.HGet(ctx, key, "token").Result()
	if err == redis.Nil {
		logger.Debug.Printf("Token not found for key: %s", key)
		return fmt.Errorf("token not found")
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return fmt.Errorf("redis error: %w", err)
	}

	if stored != token {
		logger.Debug.Printf("Token mismatch for course/student=%s/%s in %s", course, student, key)
		return fmt.Errorf("invalid token")
	}

	// usage stats piggyback on validation, same fields the manager writes
	pipe := a.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "request_count", 1)
	pipe.HSet(ctx, key, "last_request_dttm_utc", time.Now().UTC().Format(timeFormat))
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Debug.Printf("Failed to update token stats for %s: %v", key, err)
	}

	return nil
}

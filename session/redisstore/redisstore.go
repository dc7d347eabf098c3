// Package redisstore backs the session store with redis, for deployments
// where the demo state should survive process restarts without a local file.
package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/gosom/saas-funnel-demo/session"
)

type store struct {
	client *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (session.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &store{client: client}, nil
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, session.ErrNotFound
		}

		return nil, err
	}

	return value, nil
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *store) Delete(ctx context.Context, key string) error {
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return err
	}

	if deleted == 0 {
		return session.ErrNotFound
	}

	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/user/internal/otel"
)

const DefaultTokenKey = "storefront:session:token"

// RedisTokenStore keeps the token under one key. A positive ttl expires it together with the
// token it holds.
type RedisTokenStore struct {
	cache *redis.Client
	key   string
	ttl   time.Duration
}

func NewRedisTokenStore(cache *redis.Client, key string, ttl time.Duration) *RedisTokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &RedisTokenStore{cache: cache, key: key, ttl: ttl}
}

func (s *RedisTokenStore) Load(c context.Context) (string, error) {
	c, span := otel.Tracer.Start(c, "RedisTokenStore Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisTokenStore Load").
		Str(log.KeyCacheKey, s.key).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting token from cache").Logger()
	logger.Trace().Msg("getting token from cache")
	token, err := s.cache.Get(c, s.key).Result()
	if errors.Is(err, redis.Nil) {
		logger.Debug().Msg("token not found in cache")
		return "", commonErrors.ErrNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed getting token from cache with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("got token from cache")
	return token, nil
}

func (s *RedisTokenStore) Save(c context.Context, token string) error {
	c, span := otel.Tracer.Start(c, "RedisTokenStore Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisTokenStore Save").
		Str(log.KeyCacheKey, s.key).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "setting token to cache").Logger()
	logger.Trace().Msg("setting token to cache")
	if err := s.cache.Set(c, s.key, token, s.ttl).Err(); err != nil {
		err = fmt.Errorf("failed setting token to cache with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("set token to cache")
	return nil
}

func (s *RedisTokenStore) Delete(c context.Context) error {
	c, span := otel.Tracer.Start(c, "RedisTokenStore Delete")
	defer span.End()

	if err := s.cache.Del(c, s.key).Err(); err != nil {
		err = fmt.Errorf("failed deleting token from cache with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyTag, "RedisTokenStore Delete").Msg(err.Error())
		return err
	}
	return nil
}

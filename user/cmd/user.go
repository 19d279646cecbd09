package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/token"
	"github.com/Alturino/storefront/user/internal/service"
	"github.com/Alturino/storefront/user/internal/store"
)

// NewAuthSession builds the auth session with its token store: redis when the cache is
// enabled, otherwise a file under the user config directory. The returned func releases
// the store.
func NewAuthSession(c context.Context, client *inHttp.Client, cfg config.Config) (*service.AuthSession, func() error, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewAuthSession").
		Logger()

	if cfg.Cache.Enabled {
		logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
		logger.Info().Msg("initializing cache")
		cache, err := infra.NewCacheClient(logger.WithContext(c), cfg.Cache)
		if err != nil {
			err = fmt.Errorf("failed initializing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return nil, nil, err
		}
		logger.Info().Msg("initialized cache")
		tokenStore := store.NewRedisTokenStore(cache, store.DefaultTokenKey, token.DefaultTTL)
		return service.NewAuthSession(client, cfg.Api.Endpoints, tokenStore), cache.Close, nil
	}

	logger = logger.With().Str(log.KeyProcess, "resolving token path").Logger()
	path, err := store.DefaultTokenPath()
	if err != nil {
		err = fmt.Errorf("failed resolving token path with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, nil, err
	}
	logger.Info().Str("path", path).Msg("resolved token path")
	tokenStore := store.NewFileTokenStore(path)
	return service.NewAuthSession(client, cfg.Api.Endpoints, tokenStore), func() error { return nil }, nil
}

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/favorite/internal/otel"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

type FavoriteAPI struct {
	client    *inHttp.Client
	endpoints config.Endpoints
}

func NewFavoriteAPI(client *inHttp.Client, endpoints config.Endpoints) *FavoriteAPI {
	return &FavoriteAPI{client: client, endpoints: endpoints}
}

// List returns the favorite product ids. A 204 means there are none.
func (a *FavoriteAPI) List(c context.Context, token string) ([]string, error) {
	c, span := otel.Tracer.Start(c, "FavoriteAPI List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FavoriteAPI List").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting favorites").Logger()
	logger.Info().Msg("requesting favorites")
	ids := []string{}
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodGet, Path: a.endpoints.Favorites, Token: token},
		&ids,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting favorites with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	logger.Info().Int(log.KeyFavorites, len(ids)).Msg("requested favorites")

	return ids, nil
}

func (a *FavoriteAPI) Add(c context.Context, token string, productID string) error {
	return a.change(c, "FavoriteAPI Add", http.MethodPost, token, productID)
}

func (a *FavoriteAPI) Remove(c context.Context, token string, productID string) error {
	return a.change(c, "FavoriteAPI Remove", http.MethodDelete, token, productID)
}

func (a *FavoriteAPI) change(c context.Context, tag, method, token, productID string) error {
	c, span := otel.Tracer.Start(c, tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, tag).
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting favorite change").Logger()
	logger.Info().Msg("requesting favorite change")
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{
			Method: method,
			Path:   strings.TrimRight(a.endpoints.Favorites, "/") + "/" + url.PathEscape(productID),
			Token:  token,
		},
		nil,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting favorite change with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("requested favorite change")

	return nil
}

package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/service"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

type FavoriteController struct {
	service *service.FavoriteService
}

func AttachFavoriteController(router *mux.Router, endpoints config.Endpoints, service *service.FavoriteService) {
	controller := FavoriteController{service: service}
	router.HandleFunc(endpoints.Favorites, controller.List).Methods(http.MethodGet)
	router.HandleFunc(endpoints.Favorites+"/{productId}", controller.Add).Methods(http.MethodPost)
	router.HandleFunc(endpoints.Favorites+"/{productId}", controller.Remove).Methods(http.MethodDelete)
}

// List answers 204 when the user has no favorites.
func (f FavoriteController) List(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "FavoriteController List")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "FavoriteController List").Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	ids := f.service.List(c, userID)
	logger.Info().Int(log.KeyFavorites, len(ids)).Msg("found favorites")
	if len(ids) == 0 {
		inHttp.WriteJsonResponse(c, w, http.StatusNoContent, nil)
		return
	}
	inHttp.WriteJsonResponse(c, w, http.StatusOK, ids)
}

func (f FavoriteController) Add(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "FavoriteController Add")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "FavoriteController Add").
		Str(log.KeyProductID, productID).
		Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "adding favorite").Logger()
	logger.Info().Msg("adding favorite")
	if err := f.service.Add(logger.WithContext(c), userID, productID); err != nil {
		err = fmt.Errorf("failed adding favorite with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("added favorite")

	inHttp.WriteJsonResponse(c, w, http.StatusNoContent, nil)
}

func (f FavoriteController) Remove(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "FavoriteController Remove")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "FavoriteController Remove").
		Str(log.KeyProductID, productID).
		Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	f.service.Remove(logger.WithContext(c), userID, productID)
	logger.Info().Msg("removed favorite")

	inHttp.WriteJsonResponse(c, w, http.StatusNoContent, nil)
}

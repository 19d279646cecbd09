package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/address/pkg/request"
	"github.com/Alturino/storefront/address/pkg/response"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/service"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

type AddressController struct {
	service *service.AddressService
}

func AttachAddressController(router *mux.Router, endpoints config.Endpoints, service *service.AddressService) {
	controller := AddressController{service: service}
	router.HandleFunc(endpoints.MyAddresses, controller.List).Methods(http.MethodGet)
	router.HandleFunc(endpoints.Addresses, controller.Add).Methods(http.MethodPost)
	router.HandleFunc(endpoints.Addresses+"/{addressId}", controller.Update).Methods(http.MethodPut)
	router.HandleFunc(endpoints.Addresses+"/{addressId}", controller.Delete).Methods(http.MethodDelete)
}

func (a AddressController) List(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController List")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "AddressController List").Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	writeAddresses(c, w, a.service.List(c, userID))
}

func (a AddressController) Add(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController Add")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "AddressController Add").Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Address{}
	if err := decode(c, r, &reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()
	logger.Info().Msg("decoded request body")

	writeAddresses(c, w, a.service.Add(logger.WithContext(c), userID, reqBody))
}

func (a AddressController) Update(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController Update")
	defer span.End()

	addressID := mux.Vars(r)["addressId"]
	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "AddressController Update").
		Str(log.KeyAddressID, addressID).
		Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Address{}
	if err := decode(c, r, &reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()
	logger.Info().Msg("decoded request body")

	book, err := a.service.Update(logger.WithContext(c), userID, addressID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating address with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	writeAddresses(c, w, book)
}

func (a AddressController) Delete(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController Delete")
	defer span.End()

	addressID := mux.Vars(r)["addressId"]
	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "AddressController Delete").
		Str(log.KeyAddressID, addressID).
		Logger()

	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	book, err := a.service.Delete(logger.WithContext(c), userID, addressID)
	if err != nil {
		err = fmt.Errorf("failed deleting address with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	writeAddresses(c, w, book)
}

// writeAddresses answers 204 for an empty book.
func writeAddresses(c context.Context, w http.ResponseWriter, book []response.Address) {
	zerolog.Ctx(c).Info().Int(log.KeyAddresses, len(book)).Msg("found addresses")
	if len(book) == 0 {
		inHttp.WriteJsonResponse(c, w, http.StatusNoContent, nil)
		return
	}
	inHttp.WriteJsonResponse(c, w, http.StatusOK, book)
}

package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/service"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

type CartController struct {
	service *service.CartService
}

// AttachCartController registers the cart routes. Fixed paths go before the
// {productId} route so that clear is not taken for a product id.
func AttachCartController(router *mux.Router, endpoints config.Endpoints, service *service.CartService) {
	controller := CartController{service: service}

	router.HandleFunc(endpoints.Cart, controller.FindCart).Methods(http.MethodGet)
	router.HandleFunc(endpoints.AddToCart, controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc(endpoints.UpdateQuantity, controller.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc(endpoints.ClearCart, controller.Clear).Methods(http.MethodDelete)
	router.HandleFunc(endpoints.ApplyCoupon, controller.ApplyCoupon).Methods(http.MethodPost)
	router.HandleFunc(endpoints.RemoveCoupon, controller.RemoveCoupon).Methods(http.MethodDelete)
	router.HandleFunc(endpoints.MyCoupons, controller.MyCoupons).Methods(http.MethodGet)
	router.HandleFunc(endpoints.RemoveFromCart+"/{productId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController FindCart", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		return t.service.FindCart(c, userID)
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController AddItem", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		reqBody := request.AddItem{}
		if err := decode(c, r, &reqBody); err != nil {
			return response.Cart{}, err
		}
		return t.service.AddItem(c, userID, reqBody)
	})
}

func (t CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController UpdateQuantity", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		reqBody := request.UpdateQuantity{}
		if err := decode(c, r, &reqBody); err != nil {
			return response.Cart{}, err
		}
		return t.service.UpdateQuantity(c, userID, reqBody)
	})
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController RemoveItem", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		return t.service.RemoveItem(c, userID, mux.Vars(r)["productId"])
	})
}

func (t CartController) Clear(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController Clear", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		return t.service.Clear(c, userID)
	})
}

func (t CartController) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController ApplyCoupon", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		reqBody := request.ApplyCoupon{}
		if err := decode(c, r, &reqBody); err != nil {
			return response.Cart{}, err
		}
		return t.service.ApplyCoupon(c, userID, reqBody)
	})
}

func (t CartController) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	t.serve(w, r, "CartController RemoveCoupon", func(c context.Context, userID uuid.UUID) (response.Cart, error) {
		return t.service.RemoveCoupon(c, userID)
	})
}

func (t CartController) MyCoupons(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController MyCoupons")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController MyCoupons").Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from token").Logger()
	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "listing coupons").Logger()
	logger.Info().Msg("listing coupons")
	coupons, err := t.service.MyCoupons(logger.WithContext(c), userID)
	if err != nil {
		err = fmt.Errorf("failed listing coupons with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("listed coupons")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, coupons)
}

func (t CartController) serve(
	w http.ResponseWriter,
	r *http.Request,
	tag string,
	fn func(context.Context, uuid.UUID) (response.Cart, error),
) {
	c, span := otel.Tracer.Start(r.Context(), tag)
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, tag).Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from token").Logger()
	logger.Info().Msg("getting userId from token")
	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}
	logger = logger.With().Str(log.KeyUserID, userID.String()).Logger()
	logger.Info().Msg("got userId from token")

	logger = logger.With().Str(log.KeyProcess, "serving cart").Logger()
	logger.Info().Msg("serving cart")
	cart, err := fn(logger.WithContext(c), userID)
	if err != nil {
		err = fmt.Errorf("failed serving cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Int(log.KeyCartItems, len(cart.CartItems)).Msg("served cart")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, cart)
}

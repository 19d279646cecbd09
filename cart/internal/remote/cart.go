// Package remote talks to the storefront cart endpoints. Every cart it returns is already
// normalized into session state.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

type CartAPI struct {
	client    *inHttp.Client
	endpoints config.Endpoints
}

func NewCartAPI(client *inHttp.Client, endpoints config.Endpoints) *CartAPI {
	return &CartAPI{client: client, endpoints: endpoints}
}

func (a *CartAPI) GetCart(c context.Context, token string) (response.CartState, error) {
	return a.do(c, "CartAPI GetCart", inHttp.Request{Method: http.MethodGet, Path: a.endpoints.Cart, Token: token})
}

func (a *CartAPI) AddItem(c context.Context, token string, param request.AddItem) (response.CartState, error) {
	return a.do(c, "CartAPI AddItem", inHttp.Request{
		Method: http.MethodPost,
		Path:   a.endpoints.AddToCart,
		Token:  token,
		Body:   param,
	})
}

func (a *CartAPI) UpdateQuantity(c context.Context, token string, param request.UpdateQuantity) (response.CartState, error) {
	return a.do(c, "CartAPI UpdateQuantity", inHttp.Request{
		Method: http.MethodPut,
		Path:   a.endpoints.UpdateQuantity,
		Token:  token,
		Body:   param,
	})
}

func (a *CartAPI) RemoveItem(c context.Context, token string, productID string) (response.CartState, error) {
	return a.do(c, "CartAPI RemoveItem", inHttp.Request{
		Method: http.MethodDelete,
		Path:   strings.TrimRight(a.endpoints.RemoveFromCart, "/") + "/" + url.PathEscape(productID),
		Token:  token,
	})
}

func (a *CartAPI) Clear(c context.Context, token string) (response.CartState, error) {
	return a.do(c, "CartAPI Clear", inHttp.Request{Method: http.MethodDelete, Path: a.endpoints.ClearCart, Token: token})
}

func (a *CartAPI) ApplyCoupon(c context.Context, token string, param request.ApplyCoupon) (response.CartState, error) {
	return a.do(c, "CartAPI ApplyCoupon", inHttp.Request{
		Method: http.MethodPost,
		Path:   a.endpoints.ApplyCoupon,
		Token:  token,
		Body:   param,
	})
}

func (a *CartAPI) RemoveCoupon(c context.Context, token string) (response.CartState, error) {
	return a.do(c, "CartAPI RemoveCoupon", inHttp.Request{Method: http.MethodDelete, Path: a.endpoints.RemoveCoupon, Token: token})
}

// MyCoupons lists the coupons assigned to the shopper. A 404 means there are none.
func (a *CartAPI) MyCoupons(c context.Context, token string) ([]response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CartAPI MyCoupons")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartAPI MyCoupons").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting coupons").Logger()
	logger.Info().Msg("requesting coupons")
	coupons := []response.Coupon{}
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodGet, Path: a.endpoints.MyCoupons, Token: token},
		&coupons,
	)
	if errors.Is(err, commonErrors.ErrNotFound) {
		logger.Info().Msg("no coupons found")
		return []response.Coupon{}, nil
	}
	if err != nil {
		err = fmt.Errorf("failed requesting coupons with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if coupons == nil {
		coupons = []response.Coupon{}
	}
	logger.Info().Int("count", len(coupons)).Msg("requested coupons")
	return coupons, nil
}

func (a *CartAPI) do(c context.Context, tag string, req inHttp.Request) (response.CartState, error) {
	c, span := otel.Tracer.Start(c, tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, tag).
		Str(log.KeyRequestMethod, req.Method).
		Str(log.KeyRequestURI, req.Path).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting cart").Logger()
	logger.Info().Msg("requesting cart")
	cart := response.Cart{}
	if err := a.client.Do(logger.WithContext(c), req, &cart); err != nil {
		err = fmt.Errorf("failed requesting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartState{}, err
	}
	logger.Info().Int(log.KeyCartItems, len(cart.CartItems)).Msg("requested cart")

	logger = logger.With().Str(log.KeyProcess, "normalizing cart").Logger()
	state, err := cart.State(logger.WithContext(c))
	if err != nil {
		err = fmt.Errorf("failed normalizing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartState{}, err
	}

	return state, nil
}

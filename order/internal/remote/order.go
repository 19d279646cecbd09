package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

type OrderAPI struct {
	client    *inHttp.Client
	endpoints config.Endpoints
}

func NewOrderAPI(client *inHttp.Client, endpoints config.Endpoints) *OrderAPI {
	return &OrderAPI{client: client, endpoints: endpoints}
}

func (a *OrderAPI) PlaceOrder(c context.Context, token string, param request.PlaceOrder) (response.PlaceOrder, error) {
	c, span := otel.Tracer.Start(c, "OrderAPI PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderAPI PlaceOrder").
		Str("paymentMethod", string(param.PaymentMethod)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Info().Msg("placing order")
	res := response.PlaceOrder{}
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodPost, Path: a.endpoints.Orders, Token: token, Body: param},
		&res,
	)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.PlaceOrder{}, err
	}
	logger.Info().Str(log.KeyOrder, res.OrderID).Msg("placed order")

	return res, nil
}

// MyOrders lists the shopper's past orders. A 404 means there are none.
func (a *OrderAPI) MyOrders(c context.Context, token string) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderAPI MyOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderAPI MyOrders").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting orders").Logger()
	logger.Info().Msg("requesting orders")
	orders := []response.Order{}
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodGet, Path: a.endpoints.MyOrders, Token: token},
		&orders,
	)
	if errors.Is(err, commonErrors.ErrNotFound) {
		logger.Info().Msg("no orders found")
		return []response.Order{}, nil
	}
	if err != nil {
		err = fmt.Errorf("failed requesting orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if orders == nil {
		orders = []response.Order{}
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("requested orders")

	return orders, nil
}

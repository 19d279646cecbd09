package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/devserver/internal/metrics"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/service"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/order/pkg/request"
)

type OrderController struct {
	service *service.OrderService
	metrics *metrics.Metrics
}

func AttachOrderController(
	router *mux.Router,
	endpoints config.Endpoints,
	service *service.OrderService,
	metrics *metrics.Metrics,
) {
	controller := OrderController{service: service, metrics: metrics}
	router.HandleFunc(endpoints.MyOrders, controller.MyOrders).Methods(http.MethodGet)
	router.HandleFunc(endpoints.Orders, controller.PlaceOrder).Methods(http.MethodPost)
}

func (o OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController PlaceOrder").Logger()

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

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.PlaceOrder{}
	if err := decode(c, r, &reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Info().Msg("placing order")
	resp, err := o.service.PlaceOrder(logger.WithContext(c), userID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	o.metrics.OrdersPlaced.Inc()
	logger.Info().Str(log.KeyOrder, resp.OrderID).Msg("placed order")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, resp)
}

func (o OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController MyOrders")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController MyOrders").Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from token").Logger()
	userID, err := userIDFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	orders, err := o.service.MyOrders(logger.WithContext(c), userID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, orders)
}

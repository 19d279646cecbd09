package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

type OrderService struct {
	queries *repository.Queries
	carts   *CartService
	now     func() time.Time
}

func NewOrderService(queries *repository.Queries, carts *CartService, now func() time.Time) *OrderService {
	return &OrderService{queries: queries, carts: carts, now: now}
}

// PlaceOrder turns the user's cart into an order, priced with the coupon named in param.
func (svc *OrderService) PlaceOrder(c context.Context, userID uuid.UUID, param request.PlaceOrder) (response.PlaceOrder, error) {
	c, span := otel.Tracer.Start(c, "OrderService PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService PlaceOrder").
		Str(log.KeyUserID, userID.String()).
		Logger()

	svc.carts.mu.Lock()
	defer svc.carts.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart := svc.queries.FindCartByUserID(c, userID)
	if len(cart.Items) == 0 {
		err := fmt.Errorf("failed placing order with error=%w", inErrors.ErrCartEmpty)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.PlaceOrder{}, err
	}
	logger.Info().Int(log.KeyCartItems, len(cart.Items)).Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "pricing order").Logger()
	logger.Info().Msg("pricing order")
	now := svc.now()
	priced, err := price(c, svc.queries, cart.Items, "", now)
	if err != nil {
		err = fmt.Errorf("failed pricing order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.PlaceOrder{}, err
	}
	if param.AppliedCouponCode != nil && *param.AppliedCouponCode != "" {
		coupon, err := checkCoupon(c, svc.queries, userID, *param.AppliedCouponCode, priced.subtotal, now)
		if err != nil {
			err = fmt.Errorf("failed applying coupon=%s with error=%w", *param.AppliedCouponCode, err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.PlaceOrder{}, err
		}
		if priced, err = price(c, svc.queries, cart.Items, coupon.Code, now); err != nil {
			err = fmt.Errorf("failed pricing order with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.PlaceOrder{}, err
		}
	}
	logger.Info().Str("totalPrice", priced.total().String()).Msg("priced order")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	items := make([]repository.OrderItem, len(priced.lines))
	for i, line := range priced.lines {
		items[i] = repository.OrderItem{
			ID:           uuid.New(),
			ProductID:    line.product.ID,
			ProductName:  line.product.Name,
			ProductImage: line.product.Image,
			Price:        line.product.Price,
			Quantity:     line.quantity,
		}
	}
	order := svc.queries.InsertOrder(c, repository.Order{
		ID:                 uuid.New(),
		UserID:             userID,
		OrderDate:          now,
		Status:             string(response.OrderStatusPending),
		PaymentMethod:      string(param.PaymentMethod),
		DeliveryAddress:    param.DeliveryAddress,
		ContactPhoneNumber: param.ContactPhoneNumber,
		CouponCode:         priced.coupon,
		Items:              items,
		TotalPrice:         priced.total(),
		DiscountAmount:     priced.discount,
	})
	logger.Info().Str(log.KeyOrder, order.ID.String()).Msg("inserted order")

	return response.PlaceOrder{Message: "order placed successfully", OrderID: order.ID.String()}, nil
}

// MyOrders lists the user's orders, newest first. No orders is ErrNoOrders.
func (svc *OrderService) MyOrders(c context.Context, userID uuid.UUID) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService MyOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService MyOrders").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	orders := svc.queries.FindOrdersByUserID(c, userID)
	if len(orders) == 0 {
		err := fmt.Errorf("failed finding orders with error=%w", inErrors.ErrNoOrders)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	resp := make([]response.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		resp = append(resp, orders[i].Response())
	}
	logger.Info().Int(log.KeyOrders, len(resp)).Msg("found orders")

	return resp, nil
}

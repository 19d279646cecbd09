package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
)

type CartService struct {
	queries *repository.Queries
	now     func() time.Time
	mu      sync.Mutex
}

func NewCartService(queries *repository.Queries, now func() time.Time) *CartService {
	return &CartService{queries: queries, now: now}
}

func (svc *CartService) FindCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	return svc.change(c, "CartService FindCart", userID, func(cart repository.Cart, _ pricedCart) (repository.Cart, error) {
		return cart, nil
	})
}

func (svc *CartService) AddItem(c context.Context, userID uuid.UUID, param request.AddItem) (response.Cart, error) {
	return svc.change(c, "CartService AddItem", userID, func(cart repository.Cart, _ pricedCart) (repository.Cart, error) {
		if _, err := svc.queries.FindProductByID(c, param.ProductID); err != nil {
			return cart, err
		}
		i := slices.IndexFunc(cart.Items, func(item repository.CartItem) bool { return item.ProductID == param.ProductID })
		if i < 0 {
			cart.Items = append(cart.Items, repository.CartItem{ProductID: param.ProductID, Quantity: param.Quantity})
			return cart, nil
		}
		cart.Items[i].Quantity += param.Quantity
		return cart, nil
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (svc *CartService) UpdateQuantity(c context.Context, userID uuid.UUID, param request.UpdateQuantity) (response.Cart, error) {
	return svc.change(c, "CartService UpdateQuantity", userID, func(cart repository.Cart, _ pricedCart) (repository.Cart, error) {
		i := slices.IndexFunc(cart.Items, func(item repository.CartItem) bool { return item.ProductID == param.ProductID })
		if i < 0 {
			return cart, inErrors.ErrItemNotInCart
		}
		if param.Quantity <= 0 {
			cart.Items = slices.Delete(cart.Items, i, i+1)
			return cart, nil
		}
		cart.Items[i].Quantity = param.Quantity
		return cart, nil
	})
}

func (svc *CartService) RemoveItem(c context.Context, userID uuid.UUID, productID string) (response.Cart, error) {
	return svc.change(c, "CartService RemoveItem", userID, func(cart repository.Cart, _ pricedCart) (repository.Cart, error) {
		i := slices.IndexFunc(cart.Items, func(item repository.CartItem) bool { return item.ProductID == productID })
		if i < 0 {
			return cart, inErrors.ErrItemNotInCart
		}
		cart.Items = slices.Delete(cart.Items, i, i+1)
		return cart, nil
	})
}

func (svc *CartService) Clear(c context.Context, userID uuid.UUID) (response.Cart, error) {
	return svc.change(c, "CartService Clear", userID, func(cart repository.Cart, _ pricedCart) (repository.Cart, error) {
		return repository.Cart{UserID: cart.UserID, Items: []repository.CartItem{}}, nil
	})
}

func (svc *CartService) ApplyCoupon(c context.Context, userID uuid.UUID, param request.ApplyCoupon) (response.Cart, error) {
	return svc.change(c, "CartService ApplyCoupon", userID, func(cart repository.Cart, priced pricedCart) (repository.Cart, error) {
		coupon, err := checkCoupon(c, svc.queries, userID, param.CouponCode, priced.subtotal, svc.now())
		if err != nil {
			return cart, err
		}
		cart.CouponCode = coupon.Code
		return cart, nil
	})
}

func (svc *CartService) RemoveCoupon(c context.Context, userID uuid.UUID) (response.Cart, error) {
	return svc.change(c, "CartService RemoveCoupon", userID, func(cart repository.Cart, _ pricedCart) (repository.Cart, error) {
		cart.CouponCode = ""
		return cart, nil
	})
}

func (svc *CartService) MyCoupons(c context.Context, userID uuid.UUID) ([]response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CartService MyCoupons")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService MyCoupons").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing coupons").Logger()
	logger.Info().Msg("listing coupons")
	coupons := svc.queries.ListCoupons(c)
	if len(coupons) == 0 {
		err := fmt.Errorf("failed listing coupons with error=%w", inErrors.ErrNoCoupons)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	resp := make([]response.Coupon, len(coupons))
	for i, coupon := range coupons {
		resp[i] = coupon.Response(svc.queries.IsCouponUsed(c, userID, coupon.Code))
	}
	logger.Info().Int("count", len(resp)).Msg("listed coupons")

	return resp, nil
}

// change runs fn on the user's cart with its current pricing, stores the result and returns
// it priced.
func (svc *CartService) change(
	c context.Context,
	tag string,
	userID uuid.UUID,
	fn func(repository.Cart, pricedCart) (repository.Cart, error),
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, tag, trace.WithAttributes(attribute.String(log.KeyUserID, userID.String())))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, tag).
		Str(log.KeyUserID, userID.String()).
		Logger()

	svc.mu.Lock()
	defer svc.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart := svc.queries.FindCartByUserID(c, userID)
	before, err := price(c, svc.queries, cart.Items, cart.CouponCode, svc.now())
	if err != nil {
		err = fmt.Errorf("failed pricing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Int(log.KeyCartItems, len(cart.Items)).Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "changing cart").Logger()
	logger.Info().Msg("changing cart")
	cart, err = fn(cart, before)
	if err != nil {
		err = fmt.Errorf("failed changing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	svc.queries.UpsertCart(c, cart)
	logger.Info().Msg("changed cart")

	after, err := price(c, svc.queries, cart.Items, cart.CouponCode, svc.now())
	if err != nil {
		err = fmt.Errorf("failed pricing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	return after.response(), nil
}

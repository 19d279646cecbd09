// Package session holds the shopper's cart on the client. Every mutation is applied
// optimistically, confirmed by the storefront API and either committed from the server's
// answer or rolled back to the exact state before the call.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	cartOtel "github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/common/constants"
	"github.com/Alturino/storefront/internal/common/currency"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonResponse "github.com/Alturino/storefront/internal/common/response"
	"github.com/Alturino/storefront/internal/common/validate"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/optimistic"
	"github.com/Alturino/storefront/notification/pkg/notifier"
	orderRequest "github.com/Alturino/storefront/order/pkg/request"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

type RemoteCart interface {
	GetCart(c context.Context, token string) (response.CartState, error)
	AddItem(c context.Context, token string, param request.AddItem) (response.CartState, error)
	UpdateQuantity(c context.Context, token string, param request.UpdateQuantity) (response.CartState, error)
	RemoveItem(c context.Context, token string, productID string) (response.CartState, error)
	Clear(c context.Context, token string) (response.CartState, error)
	ApplyCoupon(c context.Context, token string, param request.ApplyCoupon) (response.CartState, error)
	RemoveCoupon(c context.Context, token string) (response.CartState, error)
}

type OrderPlacer interface {
	PlaceOrder(c context.Context, token string, param orderRequest.PlaceOrder) (orderResponse.PlaceOrder, error)
}

type IdentitySource interface {
	Identity() userResponse.Identity
}

type operation string

const (
	opReload         operation = "reload"
	opAddItem        operation = "add_item"
	opUpdateQuantity operation = "update_quantity"
	opRemoveItem     operation = "remove_item"
	opClear          operation = "clear"
	opApplyCoupon    operation = "apply_coupon"
	opRemoveCoupon   operation = "remove_coupon"
	opConfirmOrder   operation = "confirm_order"
)

const (
	titleCart          = "Cart"
	titleCoupon        = "Coupon"
	titleOrder         = "Order"
	titleSignIn        = "Sign in required"
	messageItemAdded   = "item added to cart"
	messageUpdated     = "cart quantity updated"
	messageItemRemoved = "item removed from cart"
	messageCleared     = "cart cleared"
	messageCouponOK    = "coupon applied"
	messageCouponGone  = "coupon removed"
	messageOrderPlaced = "order placed"
)

type CartSession struct {
	remote    RemoteCart
	orders    OrderPlacer
	identity  IdentitySource
	notifier  notifier.Notifier
	store     *optimistic.Store[response.CartState]
	mutations metric.Int64Counter
	reloads   singleflight.Group
	display   config.Display
}

func NewCartSession(
	remote RemoteCart,
	orders OrderPlacer,
	identity IdentitySource,
	n notifier.Notifier,
	display config.Display,
) *CartSession {
	mutations, err := otel.Meter(constants.APP_CART_SESSION).Int64Counter(
		"storefront.cart.mutations",
		metric.WithDescription("Cart operations by outcome"),
	)
	if err != nil {
		mutations = noop.Int64Counter{}
	}

	return &CartSession{
		remote:    remote,
		orders:    orders,
		identity:  identity,
		notifier:  n,
		display:   display,
		mutations: mutations,
		store: optimistic.NewStore(
			response.EmptyCartState(),
			response.CartState.Clone,
			func(s response.CartState, syncing bool) response.CartState {
				s.IsSyncing = syncing
				return s
			},
		),
	}
}

// State returns a copy of the current cart.
func (s *CartSession) State() response.CartState {
	return s.store.State()
}

// Subscribe registers fn for every published cart: optimistic, committed and rolled back.
func (s *CartSession) Subscribe(fn func(response.CartState)) func() {
	return s.store.Subscribe(fn)
}

func (s *CartSession) FormattedTotalPrice() string {
	return currency.Format(s.store.State().TotalPrice, s.display)
}

func (s *CartSession) FormattedDiscountAmount() string {
	return currency.Format(s.store.State().DiscountAmount, s.display)
}

// OnIdentityChange discards the cart of the previous identity, including any confirmation
// still in flight for it, and loads the cart of the new one.
func (s *CartSession) OnIdentityChange(c context.Context, identity userResponse.Identity) {
	version := s.store.Invalidate()
	zerolog.Ctx(c).
		Info().
		Str(log.KeyTag, "CartSession OnIdentityChange").
		Str(log.KeyUserID, identity.UserID).
		Uint64(log.KeyCartVersion, version).
		Msg("identity changed, reloading cart")
	s.Reload(c)
}

// Reload replaces the cart with the server's copy for the current identity. A signed out
// shopper gets an empty cart without a network call, and a failed load also leaves an empty
// cart. Concurrent reloads of the same identity share one request.
func (s *CartSession) Reload(c context.Context) response.CartState {
	version := s.store.Version()
	state, _, _ := s.reloads.Do(strconv.FormatUint(version, 10), func() (any, error) {
		return s.reload(c, version), nil
	})
	return state.(response.CartState)
}

func (s *CartSession) reload(c context.Context, version uint64) response.CartState {
	c, span := cartOtel.Tracer.Start(c, "CartSession Reload")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession Reload").
		Uint64(log.KeyCartVersion, version).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "acquiring cart").Logger()
	if err := s.store.Lock(c); err != nil {
		err = fmt.Errorf("failed acquiring cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.store.State()
	}
	defer s.store.Unlock()

	identity := s.identity.Identity()
	if !identity.IsAuthenticated() {
		logger.Info().Msg("not authenticated, resetting cart")
		s.store.Replace(version, response.EmptyCartState())
		s.record(c, opReload, optimistic.OutcomeCommitted)
		return s.store.State()
	}

	s.store.Update(version, func(st response.CartState) response.CartState {
		st.IsSyncing = true
		return st
	})

	logger = logger.With().Str(log.KeyProcess, "loading cart").Logger()
	logger.Info().Msg("loading cart")
	state, err := s.remote.GetCart(logger.WithContext(c), identity.Token)
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		state = response.EmptyCartState()
		if s.store.Version() == version {
			s.notify(c, notifier.LevelError, titleCart, commonErrors.Message(err))
		}
	} else {
		logger.Info().Int(log.KeyCartItems, len(state.Items)).Msg("loaded cart")
	}

	state.IsSyncing = false
	if !s.store.Replace(version, state) {
		logger.Info().Msg("identity changed while loading, dropping cart")
		s.record(c, opReload, optimistic.OutcomeStale)
		return s.store.State()
	}
	if err != nil {
		s.record(c, opReload, optimistic.OutcomeRolledBack)
	} else {
		s.record(c, opReload, optimistic.OutcomeCommitted)
	}
	return state
}

func (s *CartSession) AddItem(c context.Context, productID string, quantity int) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession AddItem").
		Str(log.KeyProductID, productID).
		Int(log.KeyQuantity, quantity).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opAddItem, titleCart, err)
	}

	param := request.AddItem{ProductID: productID, Quantity: quantity}
	if err := validate.Struct(c, param); err != nil {
		return s.fail(c, span, opAddItem, titleCart, err)
	}

	logger.Info().Msg("adding item")
	err = s.apply(c, opAddItem, version, optimistic.Mutation[response.CartState, response.CartState]{
		Optimistic: func(st response.CartState) response.CartState {
			return addLine(st, productID, quantity)
		},
		Confirm: func(c context.Context) (response.CartState, error) {
			return s.remote.AddItem(c, token, param)
		},
		Commit: replaceCart,
	})
	if err != nil {
		return s.fail(c, span, opAddItem, titleCart, err)
	}
	logger.Info().Msg("added item")

	return commonResponse.Succeeded(messageItemAdded), nil
}

// UpdateQuantity sets the quantity of productID. A quantity of zero or less removes the line
// locally and is still sent, leaving the final decision to the server.
func (s *CartSession) UpdateQuantity(c context.Context, productID string, quantity int) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession UpdateQuantity").
		Str(log.KeyProductID, productID).
		Int(log.KeyQuantity, quantity).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opUpdateQuantity, titleCart, err)
	}

	param := request.UpdateQuantity{ProductID: productID, Quantity: quantity}
	if err := validate.Struct(c, param); err != nil {
		return s.fail(c, span, opUpdateQuantity, titleCart, err)
	}

	logger.Info().Msg("updating quantity")
	err = s.apply(c, opUpdateQuantity, version, optimistic.Mutation[response.CartState, response.CartState]{
		Optimistic: func(st response.CartState) response.CartState {
			return setLine(st, productID, quantity)
		},
		Confirm: func(c context.Context) (response.CartState, error) {
			return s.remote.UpdateQuantity(c, token, param)
		},
		Commit: replaceCart,
	})
	if err != nil {
		return s.fail(c, span, opUpdateQuantity, titleCart, err)
	}
	logger.Info().Msg("updated quantity")

	return commonResponse.Succeeded(messageUpdated), nil
}

func (s *CartSession) RemoveItem(c context.Context, productID string) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession RemoveItem").
		Str(log.KeyProductID, productID).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opRemoveItem, titleCart, err)
	}
	if err := validate.Struct(c, request.RemoveItem{ProductID: productID}); err != nil {
		return s.fail(c, span, opRemoveItem, titleCart, err)
	}

	logger.Info().Msg("removing item")
	err = s.apply(c, opRemoveItem, version, optimistic.Mutation[response.CartState, response.CartState]{
		Optimistic: func(st response.CartState) response.CartState {
			return setLine(st, productID, 0)
		},
		Confirm: func(c context.Context) (response.CartState, error) {
			return s.remote.RemoveItem(c, token, productID)
		},
		Commit: replaceCart,
	})
	if err != nil {
		return s.fail(c, span, opRemoveItem, titleCart, err)
	}
	logger.Info().Msg("removed item")

	return commonResponse.Succeeded(messageItemRemoved), nil
}

func (s *CartSession) Clear(c context.Context) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession Clear").
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opClear, titleCart, err)
	}

	logger.Info().Msg("clearing cart")
	err = s.apply(c, opClear, version, optimistic.Mutation[response.CartState, response.CartState]{
		Optimistic: func(response.CartState) response.CartState {
			return response.EmptyCartState()
		},
		Confirm: func(c context.Context) (response.CartState, error) {
			return s.remote.Clear(c, token)
		},
		Commit: replaceCart,
	})
	if err != nil {
		return s.fail(c, span, opClear, titleCart, err)
	}
	logger.Info().Msg("cleared cart")

	return commonResponse.Succeeded(messageCleared), nil
}

// ApplyCoupon asks the server to apply code. Totals are not touched until the server answers
// since only it knows the discount.
func (s *CartSession) ApplyCoupon(c context.Context, code string) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession ApplyCoupon").
		Str(log.KeyCouponCode, code).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opApplyCoupon, titleCoupon, err)
	}

	param := request.ApplyCoupon{CouponCode: code}
	if err := validate.Struct(c, param); err != nil {
		return s.fail(c, span, opApplyCoupon, titleCoupon, err)
	}

	logger.Info().Msg("applying coupon")
	err = s.apply(c, opApplyCoupon, version, optimistic.Mutation[response.CartState, response.CartState]{
		Confirm: func(c context.Context) (response.CartState, error) {
			return s.remote.ApplyCoupon(c, token, param)
		},
		Commit: replaceTotals,
	})
	if err != nil {
		return s.fail(c, span, opApplyCoupon, titleCoupon, err)
	}
	discount := s.FormattedDiscountAmount()
	logger.Info().Str("discount", discount).Msg("applied coupon")

	s.notify(c, notifier.LevelSuccess, titleCoupon, fmt.Sprintf("discount: %s", discount))
	return commonResponse.Succeeded(messageCouponOK), nil
}

func (s *CartSession) RemoveCoupon(c context.Context) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession RemoveCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession RemoveCoupon").
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opRemoveCoupon, titleCoupon, err)
	}

	logger.Info().Msg("removing coupon")
	err = s.apply(c, opRemoveCoupon, version, optimistic.Mutation[response.CartState, response.CartState]{
		Confirm: func(c context.Context) (response.CartState, error) {
			return s.remote.RemoveCoupon(c, token)
		},
		Commit: replaceTotals,
	})
	if err != nil {
		return s.fail(c, span, opRemoveCoupon, titleCoupon, err)
	}
	logger.Info().Msg("removed coupon")

	s.notify(c, notifier.LevelSuccess, titleCoupon, messageCouponGone)
	return commonResponse.Succeeded(messageCouponGone), nil
}

// ConfirmOrder places an order for the current cart. Nothing changes locally until the
// server accepts the order; afterwards the cart is empty.
func (s *CartSession) ConfirmOrder(c context.Context, details orderRequest.OrderDetails) (commonResponse.Result, error) {
	c, span := cartOtel.Tracer.Start(c, "CartSession ConfirmOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartSession ConfirmOrder").
		Str("paymentMethod", string(details.PaymentMethod)).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth(c)
	if err != nil {
		return s.fail(c, span, opConfirmOrder, titleOrder, err)
	}

	if err := validate.Struct(c, details); err != nil {
		return s.fail(c, span, opConfirmOrder, titleOrder, err)
	}

	logger.Info().Msg("placing order")
	placed := orderResponse.PlaceOrder{}
	err = s.apply(c, opConfirmOrder, version, optimistic.Mutation[response.CartState, response.CartState]{
		Check: func(st response.CartState) error {
			if len(st.Items) == 0 {
				return fmt.Errorf("failed confirming order with error=%w", commonErrors.ErrEmptyCart)
			}
			if details.AppliedCouponCode == "" {
				details.AppliedCouponCode = st.AppliedCouponCode
			}
			return nil
		},
		Confirm: func(c context.Context) (response.CartState, error) {
			var err error
			placed, err = s.orders.PlaceOrder(c, token, details.PlaceOrder())
			return response.EmptyCartState(), err
		},
		Commit: replaceCart,
	})
	if err != nil {
		return s.fail(c, span, opConfirmOrder, titleOrder, err)
	}
	logger.Info().
		Str(log.KeyOrder, placed.OrderID).
		Str(log.KeyCouponCode, details.AppliedCouponCode).
		Msg("placed order")

	message := placed.Message
	if message == "" {
		message = messageOrderPlaced
	}
	s.notify(c, notifier.LevelSuccess, titleOrder, message)
	return commonResponse.Succeeded(message), nil
}

// requireAuth returns the bearer token together with the cart version it belongs to. The
// version is read first: an identity change after that point always moves the version, so
// a mutation carrying this token can never be applied to another shopper's cart.
func (s *CartSession) requireAuth(c context.Context) (string, uint64, error) {
	version := s.store.Version()
	identity := s.identity.Identity()
	if !identity.IsAuthenticated() {
		return "", version, fmt.Errorf("failed checking identity with error=%w", commonErrors.ErrAuthRequired)
	}
	return identity.Token, version, nil
}

func (s *CartSession) apply(
	c context.Context,
	op operation,
	version uint64,
	m optimistic.Mutation[response.CartState, response.CartState],
) error {
	_, outcome, err := optimistic.ApplyAt(c, s.store, version, m)
	s.record(c, op, outcome)
	return err
}

// fail logs err, records it on span and tells the shopper, except for a dropped stale
// confirmation which the shopper never needs to see.
func (s *CartSession) fail(
	c context.Context,
	span trace.Span,
	op operation,
	title string,
	err error,
) (commonResponse.Result, error) {
	commonErrors.HandleError(err, span)
	zerolog.Ctx(c).Error().Err(err).Str(log.KeyOperation, string(op)).Msg(err.Error())

	switch {
	case errors.Is(err, commonErrors.ErrStaleResponse):
	case errors.Is(err, commonErrors.ErrAuthRequired):
		s.notify(c, notifier.LevelInfo, titleSignIn, commonErrors.Message(err))
	default:
		s.notify(c, notifier.LevelError, title, commonErrors.Message(err))
	}
	return commonResponse.Failed(err), err
}

func (s *CartSession) notify(c context.Context, level notifier.Level, title, message string) {
	s.notifier.Notify(c, notifier.Notification{Level: level, Title: title, Message: message})
}

func (s *CartSession) record(c context.Context, op operation, outcome optimistic.Outcome) {
	s.mutations.Add(c, 1, metric.WithAttributes(
		attribute.String(log.KeyOperation, string(op)),
		attribute.String("outcome", string(outcome)),
	))
}

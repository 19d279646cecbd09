package errors

import "errors"

var (
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExist       = errors.New("email already exist")
	ErrProductNotFound  = errors.New("product not found")
	ErrItemNotInCart    = errors.New("product is not in the cart")
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponExpired    = errors.New("coupon expired")
	ErrCouponUsed       = errors.New("coupon already used")
	ErrCouponMinimum    = errors.New("order total is below the coupon minimum")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrNoOrders         = errors.New("no orders found")
	ErrNoCoupons        = errors.New("no coupons found")
	ErrAddressNotFound  = errors.New("address not found")
)

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
	"github.com/Alturino/storefront/devserver/internal/repository"
)

type pricedLine struct {
	product  repository.Product
	quantity int
}

type pricedCart struct {
	coupon   string
	lines    []pricedLine
	subtotal decimal.Decimal
	discount decimal.Decimal
}

func (p pricedCart) total() decimal.Decimal {
	return p.subtotal.Sub(p.discount)
}

func (p pricedCart) response() response.Cart {
	items := make([]response.CartItem, len(p.lines))
	for i, line := range p.lines {
		items[i] = line.product.CartItem(line.quantity)
	}
	cart := response.Cart{CartItems: items, TotalPrice: p.total(), DiscountAmount: p.discount}
	if p.coupon != "" {
		code := p.coupon
		cart.AppliedCouponCode = &code
	}
	return cart
}

// price looks up every line in the catalog and computes the discount of coupon. A coupon
// that no longer applies stays on the cart but takes nothing off.
func price(c context.Context, queries *repository.Queries, items []repository.CartItem, coupon string, now time.Time) (pricedCart, error) {
	priced := pricedCart{coupon: coupon, lines: make([]pricedLine, 0, len(items)), subtotal: decimal.Zero, discount: decimal.Zero}
	for _, item := range items {
		product, err := queries.FindProductByID(c, item.ProductID)
		if err != nil {
			return pricedCart{}, fmt.Errorf("failed pricing productId=%s with error=%w", item.ProductID, err)
		}
		priced.lines = append(priced.lines, pricedLine{product: product, quantity: item.Quantity})
		priced.subtotal = priced.subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if coupon == "" {
		return priced, nil
	}
	found, err := queries.FindCouponByCode(c, coupon)
	if err != nil || found.ExpiryDate.Before(now) || priced.subtotal.LessThan(found.MinOrderAmount) {
		return priced, nil
	}
	priced.discount = decimal.Min(found.Amount, priced.subtotal)
	return priced, nil
}

// checkCoupon reports why code cannot be used by userID on an order of subtotal.
func checkCoupon(c context.Context, queries *repository.Queries, userID uuid.UUID, code string, subtotal decimal.Decimal, now time.Time) (repository.Coupon, error) {
	coupon, err := queries.FindCouponByCode(c, code)
	if err != nil {
		return repository.Coupon{}, err
	}
	switch {
	case coupon.ExpiryDate.Before(now):
		return repository.Coupon{}, inErrors.ErrCouponExpired
	case queries.IsCouponUsed(c, userID, coupon.Code):
		return repository.Coupon{}, inErrors.ErrCouponUsed
	case subtotal.LessThan(coupon.MinOrderAmount):
		return repository.Coupon{}, inErrors.ErrCouponMinimum
	}
	return coupon, nil
}

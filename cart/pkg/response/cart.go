package response

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the cart. Name, price and image are only known once the server
// has answered; an optimistic line carries the product id and quantity alone.
type CartItem struct {
	ProductID    string              `validate:"required"               json:"productId"`
	ProductName  string              `                                  json:"productName,omitempty"`
	ProductImage string              `                                  json:"productImage,omitempty"`
	ProductPrice decimal.NullDecimal `validate:"omitempty,decimal_gte0" json:"productPrice"`
	Quantity     int                 `                                  json:"quantity"`
}

// Cart is the authoritative cart as the server returns it.
type Cart struct {
	AppliedCouponCode *string         `                        json:"appliedCouponCode"`
	CartItems         []CartItem      `validate:"dive"         json:"cartItems"`
	TotalPrice        decimal.Decimal `validate:"decimal_gte0" json:"totalPrice"`
	DiscountAmount    decimal.Decimal `validate:"decimal_gte0" json:"discountAmount"`
}

// CartState is what a cart session exposes. TotalPrice is the subtotal minus the discount
// exactly as the server computed it. An empty AppliedCouponCode means no coupon.
type CartState struct {
	AppliedCouponCode string          `json:"appliedCouponCode"`
	Items             []CartItem      `json:"items"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	IsSyncing         bool            `json:"isSyncing"`
}

func EmptyCartState() CartState {
	return CartState{Items: []CartItem{}, TotalPrice: decimal.Zero, DiscountAmount: decimal.Zero}
}

func (s CartState) Clone() CartState {
	s.Items = slices.Clone(s.Items)
	if s.Items == nil {
		s.Items = []CartItem{}
	}
	return s
}

func (s CartState) Find(productID string) (CartItem, bool) {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

func (s CartState) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

type Coupon struct {
	ExpiryDate     time.Time           `json:"expiryDate"`
	Code           string              `json:"id"`
	Description    string              `json:"description,omitempty"`
	DiscountAmount decimal.NullDecimal `json:"discountAmount"`
	MinOrderAmount decimal.Decimal     `json:"minOrderAmount"`
	IsUsed         bool                `json:"isUsed"`
}

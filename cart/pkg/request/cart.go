package request

type AddItem struct {
	ProductID string `validate:"required"       json:"productId"`
	Quantity  int    `validate:"required,gte=1" json:"quantity"`
}

// UpdateQuantity may carry a non-positive quantity; the server decides whether that deletes
// or clamps the line item.
type UpdateQuantity struct {
	ProductID string `validate:"required" json:"productId"`
	Quantity  int    `                    json:"quantity"`
}

type RemoveItem struct {
	ProductID string `validate:"required" json:"productId"`
}

type ApplyCoupon struct {
	CouponCode string `validate:"required" json:"couponCode"`
}

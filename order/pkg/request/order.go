package request

type PaymentMethod string

const (
	PaymentBankCard       PaymentMethod = "BankCard"
	PaymentCashOnDelivery PaymentMethod = "CashOnDelivery"
)

// OrderDetails is what the shopper fills in at checkout. An empty AppliedCouponCode is
// replaced by the coupon currently applied to the cart.
type OrderDetails struct {
	AppliedCouponCode  string        `                                            json:"appliedCouponCode"`
	DeliveryAddress    string        `validate:"required"                         json:"deliveryAddress"`
	ContactPhoneNumber string        `validate:"required,min=7,max=20"            json:"contactPhoneNumber"`
	PaymentMethod      PaymentMethod `validate:"required,oneof=BankCard CashOnDelivery" json:"paymentMethod"`
}

// PlaceOrder is the body sent to the order endpoint. A nil coupon is sent as null.
type PlaceOrder struct {
	AppliedCouponCode  *string       `json:"appliedCouponCode"`
	DeliveryAddress    string        `json:"deliveryAddress"`
	ContactPhoneNumber string        `json:"contactPhoneNumber"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
}

func (d OrderDetails) PlaceOrder() PlaceOrder {
	order := PlaceOrder{
		DeliveryAddress:    d.DeliveryAddress,
		ContactPhoneNumber: d.ContactPhoneNumber,
		PaymentMethod:      d.PaymentMethod,
	}
	if d.AppliedCouponCode != "" {
		code := d.AppliedCouponCode
		order.AppliedCouponCode = &code
	}
	return order
}

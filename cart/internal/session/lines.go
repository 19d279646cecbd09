package session

import (
	"github.com/Alturino/storefront/cart/pkg/response"
)

// addLine increments productID by quantity or appends it as a new line. The new line only
// knows its id and quantity until the server fills in the rest.
func addLine(st response.CartState, productID string, quantity int) response.CartState {
	for i, item := range st.Items {
		if item.ProductID == productID {
			st.Items[i].Quantity += quantity
			return st
		}
	}
	st.Items = append(st.Items, response.CartItem{ProductID: productID, Quantity: quantity})
	return st
}

// setLine sets the quantity of productID, removing the line when quantity is not positive.
// An unknown product is left alone.
func setLine(st response.CartState, productID string, quantity int) response.CartState {
	items := make([]response.CartItem, 0, len(st.Items))
	for _, item := range st.Items {
		if item.ProductID == productID {
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
		}
		items = append(items, item)
	}
	st.Items = items
	return st
}

func replaceCart(_ response.CartState, confirmed response.CartState) response.CartState {
	return confirmed
}

// replaceTotals takes the totals and coupon from the server and keeps the lines.
func replaceTotals(st response.CartState, confirmed response.CartState) response.CartState {
	st.TotalPrice = confirmed.TotalPrice
	st.DiscountAmount = confirmed.DiscountAmount
	st.AppliedCouponCode = confirmed.AppliedCouponCode
	return st
}

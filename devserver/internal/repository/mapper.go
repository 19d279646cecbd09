package repository

import (
	"github.com/shopspring/decimal"

	addressResponse "github.com/Alturino/storefront/address/pkg/response"
	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

func (u User) Response() userResponse.User {
	return userResponse.User{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
	}
}

func (a Address) Response() addressResponse.Address {
	return addressResponse.Address{
		ID:           a.ID.String(),
		AddressTitle: a.Title,
		FullAddress:  a.FullAddress,
		City:         a.City,
		District:     a.District,
		ZipCode:      a.ZipCode,
		IsDefault:    a.IsDefault,
	}
}

func (p Product) Response() productResponse.Product {
	return productResponse.Product{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price}
}

func (p Product) CartItem(quantity int) cartResponse.CartItem {
	return cartResponse.CartItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.Image,
		ProductPrice: decimal.NewNullDecimal(p.Price),
		Quantity:     quantity,
	}
}

func (c Coupon) Response(used bool) cartResponse.Coupon {
	return cartResponse.Coupon{
		Code:           c.Code,
		Description:    c.Description,
		DiscountAmount: decimal.NewNullDecimal(c.Amount),
		MinOrderAmount: c.MinOrderAmount,
		ExpiryDate:     c.ExpiryDate,
		IsUsed:         used,
	}
}

func (o Order) Response() orderResponse.Order {
	items := make([]orderResponse.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderResponse.OrderItem{
			ID:           item.ID.String(),
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Price:        item.Price,
			Quantity:     item.Quantity,
		}
	}
	return orderResponse.Order{
		ID:             o.ID.String(),
		OrderDate:      o.OrderDate,
		Status:         orderResponse.OrderStatus(o.Status),
		PaymentMethod:  o.PaymentMethod,
		OrderItems:     items,
		TotalPrice:     o.TotalPrice,
		DiscountAmount: o.DiscountAmount,
	}
}

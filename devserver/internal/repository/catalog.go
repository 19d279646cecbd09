package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

func seedProducts() map[string]Product {
	products := []Product{
		{ID: "P1", Name: "Espresso Beans 1kg", Image: "https://cdn.storefront.dev/p1.jpg", Price: decimal.RequireFromString("450.00")},
		{ID: "P2", Name: "Ceramic Pour Over", Image: "https://cdn.storefront.dev/p2.jpg", Price: decimal.RequireFromString("320.50")},
		{ID: "P3", Name: "Milk Frother", Image: "https://cdn.storefront.dev/p3.jpg", Price: decimal.RequireFromString("1249.90")},
		{ID: "P4", Name: "Paper Filters x100", Image: "https://cdn.storefront.dev/p4.jpg", Price: decimal.RequireFromString("45.00")},
	}
	seeded := make(map[string]Product, len(products))
	for _, p := range products {
		seeded[p.ID] = p
	}
	return seeded
}

func seedCoupons(now time.Time) map[string]Coupon {
	coupons := []Coupon{
		{
			Code:           "SAVE10",
			Description:    "10 off any order",
			Amount:         decimal.RequireFromString("10.00"),
			MinOrderAmount: decimal.Zero,
			ExpiryDate:     now.AddDate(1, 0, 0),
		},
		{
			Code:           "WELCOME50",
			Description:    "50 off orders of 500 or more",
			Amount:         decimal.RequireFromString("50.00"),
			MinOrderAmount: decimal.RequireFromString("500.00"),
			ExpiryDate:     now.AddDate(1, 0, 0),
		},
		{
			Code:           "OLD5",
			Description:    "5 off, no longer valid",
			Amount:         decimal.RequireFromString("5.00"),
			MinOrderAmount: decimal.Zero,
			ExpiryDate:     now.AddDate(0, -1, 0),
		},
	}
	seeded := make(map[string]Coupon, len(coupons))
	for _, coupon := range coupons {
		seeded[coupon.Code] = coupon
	}
	return seeded
}

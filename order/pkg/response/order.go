package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlaceOrder struct {
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// Order is one entry of the shopper's order history.
type Order struct {
	OrderDate      time.Time       `json:"orderDate"`
	ID             string          `json:"id"`
	Status         OrderStatus     `json:"status"`
	PaymentMethod  string          `json:"paymentMethod,omitempty"`
	OrderItems     []OrderItem     `json:"orderItems"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

type OrderItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID    string
	Name  string
	Image string
	Price decimal.Decimal
}

type User struct {
	CreatedAt   time.Time
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
	ID          uuid.UUID
}

type Address struct {
	Title       string
	FullAddress string
	City        string
	District    string
	ZipCode     string
	IsDefault   bool
	ID          uuid.UUID
	UserID      uuid.UUID
}

type CartItem struct {
	ProductID string
	Quantity  int
}

type Cart struct {
	CouponCode string
	Items      []CartItem
	UserID     uuid.UUID
}

// Coupon takes a fixed Amount off orders of at least MinOrderAmount.
type Coupon struct {
	ExpiryDate     time.Time
	Code           string
	Description    string
	Amount         decimal.Decimal
	MinOrderAmount decimal.Decimal
}

type Order struct {
	OrderDate          time.Time
	Status             string
	PaymentMethod      string
	DeliveryAddress    string
	ContactPhoneNumber string
	CouponCode         string
	Items              []OrderItem
	TotalPrice         decimal.Decimal
	DiscountAmount     decimal.Decimal
	ID                 uuid.UUID
	UserID             uuid.UUID
}

type OrderItem struct {
	ProductID    string
	ProductName  string
	ProductImage string
	Price        decimal.Decimal
	Quantity     int
	ID           uuid.UUID
}

type UpdateUserParams struct {
	Name        string
	Email       string
	PhoneNumber string
	Address     string
	ID          uuid.UUID
}

type InsertUserParams struct {
	Name     string
	Email    string
	Password string
}

package response

import "github.com/shopspring/decimal"

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

package request

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

const (
	queryName     = "name"
	queryMinPrice = "minPrice"
	queryMaxPrice = "maxPrice"
)

// FindProducts filters the catalog. Name matches case-insensitively anywhere in the product
// name; unset prices do not bound the result.
type FindProducts struct {
	Name     string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
}

func (f FindProducts) Validate() error {
	if f.MinPrice.Valid && f.MinPrice.Decimal.IsNegative() {
		return commonErrors.NewValidationError("minimum price must not be negative")
	}
	if f.MinPrice.Valid && f.MaxPrice.Valid && f.MinPrice.Decimal.GreaterThan(f.MaxPrice.Decimal) {
		return commonErrors.NewValidationError("minimum price must not exceed maximum price")
	}
	return nil
}

func (f FindProducts) Matches(name string, price decimal.Decimal) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(f.Name)) {
		return false
	}
	if f.MinPrice.Valid && price.LessThan(f.MinPrice.Decimal) {
		return false
	}
	if f.MaxPrice.Valid && price.GreaterThan(f.MaxPrice.Decimal) {
		return false
	}
	return true
}

func (f FindProducts) Query() url.Values {
	query := url.Values{}
	if f.Name != "" {
		query.Set(queryName, f.Name)
	}
	if f.MinPrice.Valid {
		query.Set(queryMinPrice, f.MinPrice.Decimal.String())
	}
	if f.MaxPrice.Valid {
		query.Set(queryMaxPrice, f.MaxPrice.Decimal.String())
	}
	return query
}

// ParseFindProducts reads a filter from query parameters and validates it.
func ParseFindProducts(query url.Values) (FindProducts, error) {
	filter := FindProducts{Name: strings.TrimSpace(query.Get(queryName))}
	var err error
	if filter.MinPrice, err = ParsePrice(query.Get(queryMinPrice)); err != nil {
		return FindProducts{}, err
	}
	if filter.MaxPrice, err = ParsePrice(query.Get(queryMaxPrice)); err != nil {
		return FindProducts{}, err
	}
	return filter, filter.Validate()
}

// ParsePrice reads an optional price typed by a user. An empty value is unset.
func ParsePrice(raw string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.NullDecimal{}, commonErrors.NewValidationError("price %q is not a number", raw)
	}
	return decimal.NewNullDecimal(price), nil
}

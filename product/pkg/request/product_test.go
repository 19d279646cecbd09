package request

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

func TestParseFindProducts(t *testing.T) {
	testCases := []struct {
		name        string
		query       url.Values
		expected    FindProducts
		expectedErr error
	}{
		{
			name:     "given empty query should not filter",
			query:    url.Values{},
			expected: FindProducts{},
		},
		{
			name:  "given every parameter should parse them",
			query: url.Values{"name": {" beans "}, "minPrice": {"10.5"}, "maxPrice": {"500"}},
			expected: FindProducts{
				Name:     "beans",
				MinPrice: decimal.NewNullDecimal(decimal.RequireFromString("10.5")),
				MaxPrice: decimal.NewNullDecimal(decimal.NewFromInt(500)),
			},
		},
		{
			name:        "given non numeric price should fail validation",
			query:       url.Values{"minPrice": {"cheap"}},
			expectedErr: commonErrors.ErrValidation,
		},
		{
			name:        "given negative minimum should fail validation",
			query:       url.Values{"minPrice": {"-1"}},
			expectedErr: commonErrors.ErrValidation,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filter, err := ParseFindProducts(tc.query)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.Name, filter.Name)
			assert.Equal(t, tc.expected.MinPrice.Valid, filter.MinPrice.Valid)
			assert.True(t, tc.expected.MinPrice.Decimal.Equal(filter.MinPrice.Decimal))
			assert.Equal(t, tc.expected.MaxPrice.Valid, filter.MaxPrice.Valid)
			assert.True(t, tc.expected.MaxPrice.Decimal.Equal(filter.MaxPrice.Decimal))
		})
	}
}

func TestFindProductsQuery(t *testing.T) {
	filter := FindProducts{Name: "pour over", MaxPrice: decimal.NewNullDecimal(decimal.RequireFromString("99.90"))}

	parsed, err := ParseFindProducts(filter.Query())

	require.NoError(t, err)
	assert.Equal(t, "pour over", parsed.Name)
	assert.False(t, parsed.MinPrice.Valid)
	assert.Equal(t, "99.9", parsed.MaxPrice.Decimal.String())
}

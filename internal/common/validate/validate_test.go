package validate

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

type priced struct {
	Name     string              `validate:"required"               json:"name"`
	Price    decimal.Decimal     `validate:"decimal_gte0"           json:"price"`
	Discount decimal.NullDecimal `validate:"omitempty,decimal_gte0" json:"discount"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name        string
		input       priced
		expectedErr string
	}{
		{
			name:  "given valid struct should return nil",
			input: priced{Name: "tea", Price: decimal.NewFromInt(10)},
		},
		{
			name:        "given missing name should name the json field",
			input:       priced{Price: decimal.NewFromInt(10)},
			expectedErr: "invalid input: name failed on required",
		},
		{
			name:        "given negative price should fail decimal rule",
			input:       priced{Name: "tea", Price: decimal.NewFromInt(-1)},
			expectedErr: "invalid input: price failed on decimal_gte0",
		},
		{
			name:  "given null discount should skip decimal rule",
			input: priced{Name: "tea", Price: decimal.NewFromInt(10), Discount: decimal.NullDecimal{}},
		},
		{
			name:  "given zero discount should pass decimal rule",
			input: priced{Name: "tea", Price: decimal.NewFromInt(10), Discount: decimal.NewNullDecimal(decimal.Zero)},
		},
		{
			name:        "given negative discount should fail decimal rule",
			input:       priced{Name: "tea", Price: decimal.NewFromInt(10), Discount: decimal.NewNullDecimal(decimal.NewFromInt(-5))},
			expectedErr: "invalid input: discount failed on decimal_gte0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(context.Background(), tt.input)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, commonErrors.ErrValidation)
			assert.EqualError(t, err, tt.expectedErr)
		})
	}
}

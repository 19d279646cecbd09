package response

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/common/validate"
	"github.com/Alturino/storefront/internal/log"
)

// State converts the wire cart into session state once, at the network boundary: a null
// item list becomes empty, null amounts become zero, a null coupon becomes "". Lines for
// the same product are merged and lines without a positive quantity are dropped.
func (c Cart) State(ctx context.Context) (CartState, error) {
	logger := zerolog.Ctx(ctx).
		With().
		Str(log.KeyTag, "Cart State").
		Int(log.KeyCartItems, len(c.CartItems)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating cart").Logger()
	if err := validate.Struct(ctx, c); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		err = fmt.Errorf("failed validating cart with error=%w", commonErrors.ErrParse)
		return CartState{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "merging cart items").Logger()
	merged := make([]CartItem, 0, len(c.CartItems))
	index := map[string]int{}
	for _, item := range c.CartItems {
		if item.Quantity <= 0 {
			logger.Info().Str(log.KeyProductID, item.ProductID).Msg("dropping non-positive cart item")
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			logger.Info().Str(log.KeyProductID, item.ProductID).Msg("merged duplicate cart item")
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	state := CartState{
		Items:          merged,
		TotalPrice:     zeroIfUnset(c.TotalPrice),
		DiscountAmount: zeroIfUnset(c.DiscountAmount),
	}
	if c.AppliedCouponCode != nil {
		state.AppliedCouponCode = *c.AppliedCouponCode
	}
	return state, nil
}

func zeroIfUnset(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}

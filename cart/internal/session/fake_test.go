package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	orderRequest "github.com/Alturino/storefront/order/pkg/request"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

var (
	unitPrice     = decimal.RequireFromString("45.00")
	errNetwork    = errors.Join(commonErrors.ErrNetwork, errors.New("dial tcp: connection refused"))
	errCouponGone = commonErrors.NewServerError(400, "coupon expired")
)

// fakeRemote behaves like the storefront API for a single shopper: every line costs
// unitPrice and SAVE10 takes 10 off.
type fakeRemote struct {
	server      response.CartState
	err         error
	onConfirm   func()
	calls       []string
	tokens      []string
	placed      []orderRequest.PlaceOrder
	inflight    atomic.Int32
	maxInflight atomic.Int32
	mu          sync.Mutex
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{server: response.EmptyCartState()}
}

func (f *fakeRemote) seed(items ...response.CartItem) {
	f.server.Items = items
	f.server = priced(f.server)
}

func (f *fakeRemote) sentTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.tokens...)
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) call(name, token string, mutate func(response.CartState) response.CartState) (response.CartState, error) {
	current := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		seen := f.maxInflight.Load()
		if current <= seen || f.maxInflight.CompareAndSwap(seen, current) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.tokens = append(f.tokens, token)
	onConfirm := f.onConfirm
	err := f.err
	f.mu.Unlock()

	if onConfirm != nil {
		onConfirm()
	}
	if err != nil {
		return response.CartState{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.server = priced(mutate(f.server.Clone()))
	return f.server.Clone(), nil
}

func priced(st response.CartState) response.CartState {
	subtotal := decimal.Zero
	for i, item := range st.Items {
		st.Items[i].ProductName = "Product " + item.ProductID
		st.Items[i].ProductPrice = decimal.NewNullDecimal(unitPrice)
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	st.DiscountAmount = decimal.Zero
	if st.AppliedCouponCode == "SAVE10" {
		st.DiscountAmount = decimal.RequireFromString("10.00")
	}
	st.TotalPrice = subtotal.Sub(st.DiscountAmount)
	return st
}

func (f *fakeRemote) GetCart(_ context.Context, token string) (response.CartState, error) {
	return f.call("get", token, func(st response.CartState) response.CartState { return st })
}

func (f *fakeRemote) AddItem(_ context.Context, token string, param request.AddItem) (response.CartState, error) {
	return f.call("add", token, func(st response.CartState) response.CartState {
		return addLine(st, param.ProductID, param.Quantity)
	})
}

func (f *fakeRemote) UpdateQuantity(_ context.Context, token string, param request.UpdateQuantity) (response.CartState, error) {
	return f.call("update", token, func(st response.CartState) response.CartState {
		return setLine(st, param.ProductID, param.Quantity)
	})
}

func (f *fakeRemote) RemoveItem(_ context.Context, token string, productID string) (response.CartState, error) {
	return f.call("remove", token, func(st response.CartState) response.CartState {
		return setLine(st, productID, 0)
	})
}

func (f *fakeRemote) Clear(_ context.Context, token string) (response.CartState, error) {
	return f.call("clear", token, func(response.CartState) response.CartState { return response.EmptyCartState() })
}

func (f *fakeRemote) ApplyCoupon(_ context.Context, token string, param request.ApplyCoupon) (response.CartState, error) {
	return f.call("apply_coupon", token, func(st response.CartState) response.CartState {
		st.AppliedCouponCode = param.CouponCode
		return st
	})
}

func (f *fakeRemote) RemoveCoupon(_ context.Context, token string) (response.CartState, error) {
	return f.call("remove_coupon", token, func(st response.CartState) response.CartState {
		st.AppliedCouponCode = ""
		return st
	})
}

func (f *fakeRemote) PlaceOrder(_ context.Context, token string, param orderRequest.PlaceOrder) (orderResponse.PlaceOrder, error) {
	_, err := f.call("order", token, func(response.CartState) response.CartState { return response.EmptyCartState() })
	if err != nil {
		return orderResponse.PlaceOrder{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, param)
	return orderResponse.PlaceOrder{Message: "order received", OrderID: "O1"}, nil
}

type fakeIdentity struct {
	identity userResponse.Identity
	reads    atomic.Int32
	mu       sync.Mutex
}

func (f *fakeIdentity) Identity() userResponse.Identity {
	f.reads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identity
}

func (f *fakeIdentity) set(identity userResponse.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = identity
}

func signedIn() userResponse.Identity {
	return userResponse.Identity{Token: "token", UserID: "U1", Authenticated: true}
}

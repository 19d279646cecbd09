package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	devserver "github.com/Alturino/storefront/devserver/cmd"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/token"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

const secretKey = "order-remote-test"

type fixture struct {
	api    *OrderAPI
	client *inHttp.Client
	token  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	server := httptest.NewServer(devserver.NewRouter(devserver.RouterOptions{
		Logger:    zerolog.Nop(),
		Prefix:    "/api",
		SecretKey: secretKey,
		Endpoints: config.DefaultEndpoints(),
	}))
	t.Cleanup(server.Close)

	signed, err := token.Sign(secretKey, uuid.NewString(), "Mehmet", "mehmet@example.com", time.Now(), time.Hour)
	require.NoError(t, err)

	client := inHttp.NewClient(config.Api{BaseURL: server.URL + "/api", Timeout: 5 * time.Second})
	return fixture{api: NewOrderAPI(client, config.DefaultEndpoints()), client: client, token: signed}
}

func (f fixture) addToCart(t *testing.T, productID string, quantity int) {
	t.Helper()
	err := f.client.Do(context.Background(), inHttp.Request{
		Method: http.MethodPost,
		Path:   config.DefaultEndpoints().AddToCart,
		Token:  f.token,
		Body:   map[string]any{"productId": productID, "quantity": quantity},
	}, nil)
	require.NoError(t, err)
}

func details(coupon *string) request.PlaceOrder {
	return request.PlaceOrder{
		AppliedCouponCode:  coupon,
		DeliveryAddress:    "Bağdat Cd. 12, İstanbul",
		ContactPhoneNumber: "+905551112233",
		PaymentMethod:      request.PaymentCashOnDelivery,
	}
}

func TestOrderAPI(t *testing.T) {
	c := context.Background()

	t.Run("given no orders should return empty history", func(t *testing.T) {
		f := newFixture(t)

		orders, err := f.api.MyOrders(c, f.token)

		require.NoError(t, err)
		assert.Equal(t, []response.Order{}, orders)
	})

	t.Run("given empty cart should reject order", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.api.PlaceOrder(c, f.token, details(nil))

		require.ErrorIs(t, err, commonErrors.ErrServer)
		assert.Equal(t, "cart is empty", commonErrors.Message(err))
	})

	t.Run("given cart with coupon should place order and list it", func(t *testing.T) {
		f := newFixture(t)
		f.addToCart(t, "P2", 2)
		coupon := "SAVE10"

		placed, err := f.api.PlaceOrder(c, f.token, details(&coupon))
		require.NoError(t, err)
		assert.NotEmpty(t, placed.Message)
		assert.NotEmpty(t, placed.OrderID)

		orders, err := f.api.MyOrders(c, f.token)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, placed.OrderID, orders[0].ID)
		assert.Equal(t, response.OrderStatusPending, orders[0].Status)
		assert.True(t, decimal.RequireFromString("631.00").Equal(orders[0].TotalPrice))
		assert.True(t, decimal.RequireFromString("10.00").Equal(orders[0].DiscountAmount))
	})

	t.Run("given used coupon should reject second order", func(t *testing.T) {
		f := newFixture(t)
		coupon := "SAVE10"
		f.addToCart(t, "P4", 1)
		_, err := f.api.PlaceOrder(c, f.token, details(&coupon))
		require.NoError(t, err)

		f.addToCart(t, "P4", 1)
		_, err = f.api.PlaceOrder(c, f.token, details(&coupon))

		require.ErrorIs(t, err, commonErrors.ErrServer)
		assert.Equal(t, "coupon already used", commonErrors.Message(err))
	})
}

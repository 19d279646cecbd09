package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/order/pkg/request"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

func newCheckoutCommand() *cobra.Command {
	details := request.OrderDetails{}
	var payment string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			details.PaymentMethod = request.PaymentMethod(payment)
			if _, err := a.cart.ConfirmOrder(c, details); err != nil {
				return err
			}
			return printCart(a.out, a.cart)
		}),
	}
	cmd.Flags().StringVar(&details.DeliveryAddress, "address", "", "delivery address")
	cmd.Flags().StringVar(&details.ContactPhoneNumber, "phone", "", "contact phone number")
	cmd.Flags().StringVar(
		&payment,
		"payment",
		string(request.PaymentCashOnDelivery),
		fmt.Sprintf("payment method, %s or %s", request.PaymentBankCard, request.PaymentCashOnDelivery),
	)
	cmd.Flags().StringVar(&details.AppliedCouponCode, "coupon", "", "coupon code, defaults to the one applied to the cart")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("phone")
	return cmd
}

func newOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			identity, err := requireSignedIn(a)
			if err != nil {
				return err
			}
			orders, err := a.orders.MyOrders(c, identity.Token)
			if err != nil {
				return err
			}
			return printOrders(a.out, orders, a.cfg.Display)
		}),
	}
}

func requireSignedIn(a *app) (userResponse.Identity, error) {
	identity := a.auth.Identity()
	if !identity.IsAuthenticated() {
		return identity, commonErrors.ErrAuthRequired
	}
	return identity, nil
}

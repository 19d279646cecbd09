package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newCouponCommand() *cobra.Command {
	couponCmd := &cobra.Command{
		Use:   "coupon",
		Short: "Apply, remove and list coupons",
	}

	couponCmd.AddCommand(
		&cobra.Command{
			Use:   "apply CODE",
			Short: "Apply a coupon to the cart",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				if _, err := a.cart.ApplyCoupon(c, args[0]); err != nil {
					return err
				}
				return printCart(a.out, a.cart)
			}),
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove the applied coupon",
			Args:  cobra.NoArgs,
			RunE: withApp(func(c context.Context, a *app, _ []string) error {
				if _, err := a.cart.RemoveCoupon(c); err != nil {
					return err
				}
				return printCart(a.out, a.cart)
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List your coupons",
			Args:  cobra.NoArgs,
			RunE: withApp(func(c context.Context, a *app, _ []string) error {
				identity, err := requireSignedIn(a)
				if err != nil {
					return err
				}
				coupons, err := a.coupons.MyCoupons(c, identity.Token)
				if err != nil {
					return err
				}
				return printCoupons(a.out, coupons, a.cfg.Display)
			}),
		},
	)
	return couponCmd
}

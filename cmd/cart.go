package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCartCommand() *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	cartCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart",
			Args:  cobra.NoArgs,
			RunE: withApp(func(_ context.Context, a *app, _ []string) error {
				return printCart(a.out, a.cart)
			}),
		},
		&cobra.Command{
			Use:   "add PRODUCT_ID [QUANTITY]",
			Short: "Add a product, one unless a quantity is given",
			Args:  cobra.RangeArgs(1, 2),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				quantity := 1
				if len(args) == 2 {
					parsed, err := parseQuantity(args[1])
					if err != nil {
						return err
					}
					quantity = parsed
				}
				if _, err := a.cart.AddItem(c, args[0], quantity); err != nil {
					return err
				}
				return printCart(a.out, a.cart)
			}),
		},
		&cobra.Command{
			Use:   "update PRODUCT_ID QUANTITY",
			Short: "Set the quantity of a product, zero removes it",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				quantity, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				if _, err := a.cart.UpdateQuantity(c, args[0], quantity); err != nil {
					return err
				}
				return printCart(a.out, a.cart)
			}),
		},
		&cobra.Command{
			Use:   "remove PRODUCT_ID",
			Short: "Remove a product",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				if _, err := a.cart.RemoveItem(c, args[0]); err != nil {
					return err
				}
				return printCart(a.out, a.cart)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: withApp(func(c context.Context, a *app, _ []string) error {
				if _, err := a.cart.Clear(c); err != nil {
					return err
				}
				return printCart(a.out, a.cart)
			}),
		},
	)
	return cartCmd
}

func parseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a number", raw)
	}
	return quantity, nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoritesCommand() *cobra.Command {
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "List and toggle favorite products",
	}

	favoritesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite products",
			Args:  cobra.NoArgs,
			RunE: withApp(func(c context.Context, a *app, _ []string) error {
				if _, err := requireSignedIn(a); err != nil {
					return err
				}
				st := a.favorites.Load(c)
				if len(st.ProductIDs) == 0 {
					fmt.Fprintln(a.out, "no favorites")
					return nil
				}
				for _, id := range st.ProductIDs {
					fmt.Fprintln(a.out, id)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "toggle PRODUCT_ID",
			Short: "Add a product to favorites or remove it",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				if a.auth.Identity().IsAuthenticated() {
					a.favorites.Load(c)
				}
				result, err := a.favorites.Toggle(c, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: %s\n", args[0], result.Message)
				return nil
			}),
		},
	)
	return favoritesCmd
}

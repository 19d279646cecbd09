package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

func newProductsCommand() *cobra.Command {
	var name, minPrice, maxPrice string
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			filter := request.FindProducts{Name: name}
			var err error
			if filter.MinPrice, err = request.ParsePrice(minPrice); err != nil {
				return err
			}
			if filter.MaxPrice, err = request.ParsePrice(maxPrice); err != nil {
				return err
			}
			products, err := a.products.FindProducts(c, filter)
			if err != nil {
				return err
			}
			return printProducts(a.out, products, a.cfg.Display)
		}),
	}
	productsCmd.Flags().StringVar(&name, "name", "", "match products whose name contains this")
	productsCmd.Flags().StringVar(&minPrice, "min-price", "", "lowest price")
	productsCmd.Flags().StringVar(&maxPrice, "max-price", "", "highest price")

	productsCmd.AddCommand(&cobra.Command{
		Use:   "show PRODUCT_ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(c context.Context, a *app, args []string) error {
			product, err := a.products.FindProductByID(c, args[0])
			if err != nil {
				return err
			}
			return printProducts(a.out, []response.Product{product}, a.cfg.Display)
		}),
	})
	return productsCmd
}

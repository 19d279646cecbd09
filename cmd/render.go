package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	addressResponse "github.com/Alturino/storefront/address/pkg/response"
	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/common/currency"
	"github.com/Alturino/storefront/internal/config"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

func printCart(w io.Writer, cart cartSession) error {
	st := cart.State()
	if len(st.Items) == 0 {
		_, err := fmt.Fprintln(w, "cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tPRICE")
	for _, item := range st.Items {
		price := "-"
		if item.ProductPrice.Valid {
			price = item.ProductPrice.Decimal.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.ProductID, item.ProductName, item.Quantity, price)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if st.AppliedCouponCode != "" {
		fmt.Fprintf(w, "coupon:   %s (-%s)\n", st.AppliedCouponCode, cart.FormattedDiscountAmount())
	}
	_, err := fmt.Fprintf(w, "total:    %s\n", cart.FormattedTotalPrice())
	return err
}

func printCoupons(w io.Writer, coupons []cartResponse.Coupon, display config.Display) error {
	if len(coupons) == 0 {
		_, err := fmt.Fprintln(w, "no coupons")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tDISCOUNT\tMIN ORDER\tEXPIRES\tSTATUS")
	for _, coupon := range coupons {
		discount := "-"
		if coupon.DiscountAmount.Valid {
			discount = currency.Format(coupon.DiscountAmount.Decimal, display)
		}
		status := "available"
		if coupon.IsUsed {
			status = "used"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			coupon.Code,
			discount,
			currency.Format(coupon.MinOrderAmount, display),
			coupon.ExpiryDate.Format("2006-01-02"),
			status,
		)
	}
	return tw.Flush()
}

func printOrders(w io.Writer, orders []orderResponse.Order, display config.Display) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "no orders yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, order := range orders {
		names := make([]string, len(order.OrderItems))
		for i, item := range order.OrderItems {
			names[i] = fmt.Sprintf("%dx %s", item.Quantity, item.ProductName)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			order.ID,
			order.OrderDate.Format("2006-01-02 15:04"),
			order.Status,
			strings.Join(names, ", "),
			currency.Format(order.TotalPrice, display),
		)
	}
	return tw.Flush()
}

func printProducts(w io.Writer, products []productResponse.Product, display config.Display) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "no products found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tPRICE")
	for _, product := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", product.ID, product.Name, currency.Format(product.Price, display))
	}
	return tw.Flush()
}

func printAddresses(w io.Writer, addresses []addressResponse.Address) error {
	if len(addresses) == 0 {
		_, err := fmt.Fprintln(w, "no addresses")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tADDRESS\tDISTRICT\tCITY\tZIP\tDEFAULT")
	for _, address := range addresses {
		isDefault := ""
		if address.IsDefault {
			isDefault = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			address.ID,
			address.AddressTitle,
			address.FullAddress,
			address.District,
			address.City,
			address.ZipCode,
			isDefault,
		)
	}
	return tw.Flush()
}

func printProfile(w io.Writer, user userResponse.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", user.Name)
	fmt.Fprintf(tw, "email:\t%s\n", user.Email)
	if user.PhoneNumber != "" {
		fmt.Fprintf(tw, "phone:\t%s\n", user.PhoneNumber)
	}
	if user.Address != "" {
		fmt.Fprintf(tw, "address:\t%s\n", user.Address)
	}
	return tw.Flush()
}

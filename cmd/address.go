package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Alturino/storefront/address/pkg/request"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

func newAddressCommand() *cobra.Command {
	addressCmd := &cobra.Command{
		Use:   "address",
		Short: "Manage the delivery address book",
	}

	addressCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved addresses",
			Args:  cobra.NoArgs,
			RunE: withApp(func(_ context.Context, a *app, _ []string) error {
				if _, err := requireSignedIn(a); err != nil {
					return err
				}
				return printAddresses(a.out, a.addresses.State().Addresses)
			}),
		},
		newAddressAddCommand(),
		newAddressUpdateCommand(),
		&cobra.Command{
			Use:   "remove ADDRESS_ID",
			Short: "Delete an address",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				result, err := a.addresses.Delete(c, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, result.Message)
				return printAddresses(a.out, a.addresses.State().Addresses)
			}),
		},
		&cobra.Command{
			Use:   "default ADDRESS_ID",
			Short: "Make an address the default delivery address",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(c context.Context, a *app, args []string) error {
				result, err := a.addresses.SetDefault(c, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, result.Message)
				return printAddresses(a.out, a.addresses.State().Addresses)
			}),
		},
	)
	return addressCmd
}

func addressFlags(flags *pflag.FlagSet, param *request.Address) {
	flags.StringVar(&param.AddressTitle, "title", "", "short name such as Home or Work")
	flags.StringVar(&param.FullAddress, "full", "", "street, building and door")
	flags.StringVar(&param.City, "city", "", "city")
	flags.StringVar(&param.District, "district", "", "district")
	flags.StringVar(&param.ZipCode, "zip", "", "postal code")
	flags.BoolVar(&param.IsDefault, "default", false, "make it the default delivery address")
}

func newAddressAddCommand() *cobra.Command {
	param := request.Address{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new address",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			result, err := a.addresses.Add(c, param)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, result.Message)
			return printAddresses(a.out, a.addresses.State().Addresses)
		}),
	}
	addressFlags(cmd.Flags(), &param)
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("full")
	return cmd
}

// newAddressUpdateCommand changes only the fields whose flags are given.
func newAddressUpdateCommand() *cobra.Command {
	changes := request.Address{}
	var cmd *cobra.Command
	cmd = &cobra.Command{
		Use:   "update ADDRESS_ID",
		Short: "Change a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(c context.Context, a *app, args []string) error {
			if _, err := requireSignedIn(a); err != nil {
				return err
			}
			current, ok := a.addresses.State().Find(args[0])
			if !ok {
				return commonErrors.NewValidationError("address %s is not in the address book", args[0])
			}
			param := current.Request()
			flags := cmd.Flags()
			for name, apply := range map[string]func(){
				"title":    func() { param.AddressTitle = changes.AddressTitle },
				"full":     func() { param.FullAddress = changes.FullAddress },
				"city":     func() { param.City = changes.City },
				"district": func() { param.District = changes.District },
				"zip":      func() { param.ZipCode = changes.ZipCode },
				"default":  func() { param.IsDefault = changes.IsDefault },
			} {
				if flags.Changed(name) {
					apply()
				}
			}

			result, err := a.addresses.Update(c, args[0], param)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, result.Message)
			return printAddresses(a.out, a.addresses.State().Addresses)
		}),
	}
	addressFlags(cmd.Flags(), &changes)
	return cmd
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/user/pkg/request"
)

// newProfileCommand updates the signed in profile. Name and email keep their current value
// when their flag is left out.
func newProfileCommand() *cobra.Command {
	param := request.UpdateProfile{}
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update name, email, phone number and address of the account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			identity, err := requireSignedIn(a)
			if err != nil {
				return err
			}
			if param.Name == "" {
				param.Name = identity.Name
			}
			if param.Email == "" {
				param.Email = identity.Email
			}

			user, result, err := a.auth.UpdateProfile(c, param)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, result.Message)
			return printProfile(a.out, user)
		}),
	}
	cmd.Flags().StringVar(&param.Name, "name", "", "display name")
	cmd.Flags().StringVar(&param.Email, "email", "", "account email")
	cmd.Flags().StringVar(&param.PhoneNumber, "phone", "", "contact phone number")
	cmd.Flags().StringVar(&param.Address, "address", "", "contact address")
	return cmd
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/user/pkg/request"
)

func newLoginCommand() *cobra.Command {
	param := request.Login{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			result, err := a.auth.Login(c, param)
			if err != nil {
				return err
			}
			identity := a.auth.Identity()
			fmt.Fprintf(a.out, "%s as %s <%s>\n", result.Message, identity.Name, identity.Email)
			return printCart(a.out, a.cart)
		}),
	}
	cmd.Flags().StringVar(&param.Email, "email", "", "account email")
	cmd.Flags().StringVar(&param.Password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand() *cobra.Command {
	param := request.Register{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			result, err := a.auth.Register(c, param)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, result.Message)
			return nil
		}),
	}
	cmd.Flags().StringVar(&param.Name, "name", "", "display name")
	cmd.Flags().StringVar(&param.Email, "email", "", "account email")
	cmd.Flags().StringVar(&param.Password, "password", "", "account password, at least 6 characters")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			fmt.Fprintln(a.out, a.auth.Logout(c).Message)
			return nil
		}),
	}
}

func newGuestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Browse without an account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(c context.Context, a *app, _ []string) error {
			fmt.Fprintln(a.out, a.auth.EnterGuestMode(c).Message)
			return nil
		}),
	}
}

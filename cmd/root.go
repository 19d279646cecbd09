package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/common/constants"
)

var configName string

func Start() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(c); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.APP_STOREFRONT,
		Short:         "Shop from the terminal: cart, coupons, checkout, favorites and addresses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configName, "config", constants.APP_STOREFRONT, "config name looked up in ./env")

	rootCmd.AddCommand(
		newLoginCommand(),
		newRegisterCommand(),
		newLogoutCommand(),
		newGuestCommand(),
		newProductsCommand(),
		newCartCommand(),
		newCouponCommand(),
		newCheckoutCommand(),
		newOrdersCommand(),
		newFavoritesCommand(),
		newAddressCommand(),
		newProfileCommand(),
		newDevServerCommand(),
	)
	return rootCmd
}

// withApp builds the app for one command run and releases it afterwards.
func withApp(run func(c context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, a, err := newApp(cmd.Context(), configName, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		logger := loggerFrom(c, "main "+cmd.CommandPath())
		logger.Info().Msg("running command")
		err = errors.Join(run(c, a, args), a.close())
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Msg("ran command")
		return nil
	}
}

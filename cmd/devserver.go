package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	devserver "github.com/Alturino/storefront/devserver/cmd"
	"github.com/Alturino/storefront/internal/common/constants"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
)

func newDevServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory storefront API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cmd.Context()
			cfg, err := config.Load(c, configName)
			if err != nil {
				return err
			}
			logFile := cfg.Application.LogFile
			if logFile != "" {
				if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
					logFile = ""
				}
			}
			logger := log.Get(logFile, cfg.Application.Env).
				With().
				Str(log.KeyAppName, constants.APP_DEVSERVER).
				Logger()
			return devserver.RunDevServer(logger.WithContext(c), cfg)
		},
	}
}

// Package cmd implements the idstore command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.pilab.hu/idstore/config"
	"go.pilab.hu/idstore/internal/app"
	"go.pilab.hu/idstore/log"
)

var (
	cfgFile   string
	cfg       *config.Config
	appLogger log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "idstore",
	Short:         "idstore keeps OAuth/OIDC configuration and grants in a document store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		loaded, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		appLogger = log.NewZerologAdapter(log.ParseLevel(cfg.LogLevel), cfg.LogPretty)
		appLogger.Debug(cmd.Context(), "configuration loaded", log.Fields{
			"storage_backend":   cfg.StorageBackend,
			"collection_prefix": cfg.CollectionPrefix,
			"cache_enabled":     cfg.Cache.Enabled,
			"cleanup_enabled":   cfg.TokenCleanup.Enabled,
		})
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if appLogger != nil {
			appLogger.Error(context.Background(), "idstore failed", err)
		} else {
			fmt.Fprintln(os.Stderr, "idstore:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./idstore.yaml, /etc/idstore/idstore.yaml or $HOME/.idstore/idstore.yaml)")

	rootCmd.AddCommand(serveCmd, cleanupCmd, seedCmd, versionCmd)
}

// withApp builds the application for one command and closes it afterwards.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			appLogger.Warn(ctx, "failed to close resources", log.Fields{"error": err.Error()})
		}
	}()

	return fn(a)
}

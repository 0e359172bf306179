package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/regatta-results-api/internal/api"
	"github.com/JakeFAU/regatta-results-api/internal/app"
	"github.com/JakeFAU/regatta-results-api/internal/config"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a fake app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetConfig() config.Config
	GetScraper() api.Scraper
	NewHTTPServer() *http.Server
}

// newApp is the application factory, replaced in tests.
var newApp = func(cfg config.Config) (App, error) {
	return app.NewApp(cfg)
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "regattaapi",
		Short: "Scrapes TimeTeam regatta results into JSON.",
		Long: `regattaapi reads the TimeTeam results website and reshapes its pages
into races, fields and crews. Run "serve" for the HTTP API or use the
one-shot commands to print the same JSON to stdout.`,
		SilenceUsage: true,

		// Runs before every subcommand: load config and build the services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appInstance, err := newApp(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			zap.ReplaceGlobals(appInstance.GetLogger())

			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env REGATTA_* overrides")

	cmd.AddCommand(
		newServeCmd(),
		newRacesCmd(),
		newFieldsCmd(),
		newEntriesCmd(),
	)
	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

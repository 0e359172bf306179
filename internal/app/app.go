// Package app initializes and holds the application services, acting as a
// small dependency injection container for the CLI commands.
package app

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/regatta-results-api/internal/api"
	"github.com/JakeFAU/regatta-results-api/internal/config"
	collyfetcher "github.com/JakeFAU/regatta-results-api/internal/fetcher/colly"
	"github.com/JakeFAU/regatta-results-api/internal/logging"
	"github.com/JakeFAU/regatta-results-api/internal/metrics"
	"github.com/JakeFAU/regatta-results-api/internal/scraper"
)

// App holds the services shared by every command.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	scraper *scraper.Service
}

// NewApp builds the logger, fetcher and scraper from cfg.
func NewApp(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return newWithLogger(cfg, logger), nil
}

func newWithLogger(cfg config.Config, logger *zap.Logger) *App {
	metrics.Init()
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	return &App{
		cfg:     cfg,
		logger:  logger,
		scraper: scraper.NewService(fetcher, cfg.ScraperConfig(), logger.Named("scraper")),
	}
}

// GetLogger returns the shared zap logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetConfig returns the loaded configuration.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// GetScraper returns the scraper service.
func (a *App) GetScraper() api.Scraper {
	return a.scraper
}

// NewHTTPServer builds the API server listening on the configured port.
func (a *App) NewHTTPServer() *http.Server {
	apiServer := api.NewServer(a.scraper, a.cfg, a.logger.Named("api"))
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Close flushes buffered log entries.
func (a *App) Close() {
	_ = a.logger.Sync() //nolint:errcheck // stderr sync fails on some terminals
}

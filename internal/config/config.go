// Package config loads and validates service configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/regatta-results-api/internal/scraper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Source  SourceConfig  `mapstructure:"source"`
	Entries EntriesConfig `mapstructure:"entries"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int    `mapstructure:"port"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	StaticDir             string `mapstructure:"static_dir"`
}

// HTTPConfig configures the upstream HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// SourceConfig points at the results website.
type SourceConfig struct {
	ResultsURL    string `mapstructure:"results_url"`
	AllowedPrefix string `mapstructure:"allowed_prefix"`
}

// EntriesConfig tunes the crew scraping fan-out.
type EntriesConfig struct {
	MaxParallel       int  `mapstructure:"max_parallel"`
	NormalizeFallback bool `mapstructure:"normalize_fallback"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REGATTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "REGATTA_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "regatta-results-api/0.1")
	v.SetDefault("source.results_url", scraper.DefaultResultsURL)
	v.SetDefault("source.allowed_prefix", scraper.DefaultAllowedPrefix)
	v.SetDefault("entries.max_parallel", scraper.DefaultMaxParallel)
	v.SetDefault("entries.normalize_fallback", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return errors.New("server.request_timeout_seconds must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.New("http.timeout_seconds must be > 0")
	}
	if c.Entries.MaxParallel <= 0 {
		return errors.New("entries.max_parallel must be > 0")
	}
	if c.Source.ResultsURL == "" {
		return errors.New("source.results_url must be set")
	}
	return nil
}

// FetchTimeout is the per-request budget for upstream reads.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RequestTimeout bounds a single inbound API request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// ScraperConfig maps the source and entries sections onto scraper.Config.
func (c Config) ScraperConfig() scraper.Config {
	return scraper.Config{
		ResultsURL:    c.Source.ResultsURL,
		AllowedPrefix: c.Source.AllowedPrefix,
		MaxParallel:   c.Entries.MaxParallel,
	}
}

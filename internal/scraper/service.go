package scraper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// DefaultResultsURL is the TimeTeam results overview page.
	DefaultResultsURL = "https://time-team.nl/en/info/results"
	// DefaultAllowedPrefix is the only host prefix accepted for race links.
	DefaultAllowedPrefix = "https://regatta.time-team.nl/"
	// DefaultMaxParallel bounds concurrent crew-page fetches per call.
	DefaultMaxParallel = 8

	tableSelector = "table.timeteam"
)

// Config controls the extractors.
type Config struct {
	ResultsURL    string
	AllowedPrefix string
	MaxParallel   int
}

// Service runs the race, field and entry extractors against a Fetcher.
type Service struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewService builds a Service. Zero config values fall back to the defaults.
func NewService(fetcher Fetcher, cfg Config, logger *zap.Logger) *Service {
	if cfg.ResultsURL == "" {
		cfg.ResultsURL = DefaultResultsURL
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultMaxParallel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *Service) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.fetcher.Fetch(ctx, FetchRequest{URL: url})
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, url, err)
	}
	return doc, nil
}

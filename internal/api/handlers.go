package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeFAU/regatta-results-api/internal/scraper"
)

const raceURLParam = "race_url"

// Scraper is the extraction surface the handlers depend on.
type Scraper interface {
	Races(ctx context.Context) ([]scraper.Race, error)
	Fields(ctx context.Context, raceURL string) ([]scraper.Field, error)
	Entries(ctx context.Context, pageURL string) ([]scraper.CrewResult, error)
}

// ResultsHandler serves the races, fields and entries endpoints.
type ResultsHandler struct {
	scraper           Scraper
	normalizeFallback bool
	logger            *zap.Logger
}

// NewResultsHandler wires the scraper and logger.
func NewResultsHandler(s Scraper, normalizeFallback bool, logger *zap.Logger) *ResultsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultsHandler{
		scraper:           s,
		normalizeFallback: normalizeFallback,
		logger:            logger,
	}
}

// ListRaces handles GET /races. Upstream failures map to 502.
func (h *ResultsHandler) ListRaces(w http.ResponseWriter, r *http.Request) {
	races, err := h.scraper.Races(r.Context())
	if err != nil {
		h.logger.Warn("races scrape failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error fetching races: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, races)
}

// ListFields handles GET /fields?race_url=. Upstream failures map to 502.
func (h *ResultsHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	raceURL, ok := requireParam(w, r, raceURLParam)
	if !ok {
		return
	}
	fields, err := h.scraper.Fields(r.Context(), raceURL)
	if err != nil {
		h.logger.Warn("fields scrape failed", zap.String("race_url", raceURL), zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error fetching fields: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// ListEntries handles GET /entries?race_url=, where race_url is an entries or
// draw page. Any failure maps to 500 with the error text.
func (h *ResultsHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	pageURL, ok := requireParam(w, r, raceURLParam)
	if !ok {
		return
	}
	results, err := h.scraper.Entries(r.Context(), pageURL)
	if err != nil {
		h.logger.Error("entries scrape failed", zap.String("race_url", pageURL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scraper.EncodeCrews(results, h.normalizeFallback))
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		writeError(w, http.StatusUnprocessableEntity, name+" is required")
		return "", false
	}
	return value, true
}

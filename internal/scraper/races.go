package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Races fetches the results overview page and returns the listed races.
func (s *Service) Races(ctx context.Context) ([]Race, error) {
	doc, err := s.fetchDocument(ctx, s.cfg.ResultsURL)
	if err != nil {
		return nil, err
	}
	races := ParseRaces(doc, s.cfg.AllowedPrefix)
	s.logger.Debug("races extracted", zap.Int("count", len(races)))
	return races, nil
}

// ParseRaces reads every organiser link on the overview page. Links without a
// name, or whose href does not start with allowedPrefix, are skipped. An empty
// allowedPrefix accepts any non-empty href.
func ParseRaces(doc *goquery.Document, allowedPrefix string) []Race {
	races := make([]Race, 0)
	doc.Find("a.regatta-organiser").Each(func(_ int, a *goquery.Selection) {
		name := firstText(a, "h2")
		date := firstText(a, "p")
		href, _ := a.Attr("href")
		if name == "" || href == "" || !strings.HasPrefix(href, allowedPrefix) {
			return
		}
		races = append(races, Race{Name: name, Date: date, URL: href})
	})
	return races
}

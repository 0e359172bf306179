package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/regatta-results-api/internal/metrics"
)

// Crew table header tokens, compared lower-cased.
const (
	positionHeader = "pos."
	nameHeader     = "naam"
)

var excludedPositions = map[string]struct{}{
	"coach": {},
	"cox":   {},
	"":      {},
}

// Entries scrapes an entries or draw page, then every distinct crew page it
// links to. A crew page that cannot be fetched or parsed is left out of the
// result; only a failure on the entries page itself is returned as an error.
// Results keep the order in which each crew link first appeared.
func (s *Service) Entries(ctx context.Context, pageURL string) ([]CrewResult, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	entries := UniqueEntries(ParseCrewEntries(doc))
	base := EntriesBaseURL(pageURL)

	slots := make([]*CrewResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallel)
	for i, entry := range entries {
		crewURL := base + entry.Link
		g.Go(func() error {
			metrics.IncCrewFetches()
			defer metrics.DecCrewFetches()
			res, err := s.scrapeCrew(gctx, entry.BoatName, crewURL)
			if err != nil {
				metrics.ObserveCrewPage("failed")
				s.logger.Warn("crew page skipped",
					zap.String("url", crewURL),
					zap.String("boat", entry.BoatName),
					zap.Error(err),
				)
				return nil
			}
			metrics.ObserveCrewPage(res.Kind.String())
			slots[i] = &res
			return nil
		})
	}
	_ = g.Wait() // tasks never fail; errors are isolated per crew page

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scrape crews: %w", err)
	}

	results := make([]CrewResult, 0, len(slots))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	s.logger.Debug("entries extracted",
		zap.String("url", pageURL),
		zap.Int("links", len(entries)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func (s *Service) scrapeCrew(ctx context.Context, boatName, crewURL string) (CrewResult, error) {
	doc, err := s.fetchDocument(ctx, crewURL)
	if err != nil {
		return CrewResult{}, err
	}
	return ParseCrew(doc, boatName), nil
}

// ParseCrewEntries collects the crew links from the third cell of every row
// with at least three cells. Only links pointing at an individual entry page
// are kept, in document order and including duplicates.
func ParseCrewEntries(doc *goquery.Document) []CrewEntry {
	var entries []CrewEntry
	doc.Find(tableSelector).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			tds := tr.Find("td")
			if tds.Length() < 3 {
				return
			}
			cell := tds.Eq(2)
			link := cell.Find("a").First()
			if link.Length() == 0 {
				return
			}
			href, _ := link.Attr("href")
			if !strings.Contains(href, entryMarker) {
				return
			}
			boat := strippedText(link)
			if boat == "" {
				boat = strippedText(cell)
			}
			entries = append(entries, CrewEntry{BoatName: boat, Link: cleanEntryLink(href)})
		})
	})
	return entries
}

// UniqueEntries keeps the first occurrence of every link.
func UniqueEntries(entries []CrewEntry) []CrewEntry {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]CrewEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Link]; ok {
			continue
		}
		seen[e.Link] = struct{}{}
		unique = append(unique, e)
	}
	return unique
}

// ParseCrew extracts the rowers of one crew page. When the crew table is
// missing or lists nobody, the page's first heading is returned instead as a
// fallback result.
func ParseCrew(doc *goquery.Document, boatName string) CrewResult {
	members := crewMembers(findCrewTable(doc))
	if len(members) > 0 {
		return CrewResult{Kind: ResultPrimary, BoatName: boatName, Members: members}
	}
	return CrewResult{
		Kind:     ResultFallback,
		BoatName: boatName,
		Heading:  firstText(doc.Selection, "h1, h2, h3, h4, h5, h6"),
	}
}

func findCrewTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(tableSelector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var hasPos, hasName bool
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			switch strings.ToLower(strippedText(th)) {
			case positionHeader:
				hasPos = true
			case nameHeader:
				hasName = true
			}
		})
		if hasPos && hasName {
			found = table
			return false
		}
		return true
	})
	return found
}

func crewMembers(table *goquery.Selection) []string {
	if table == nil {
		return nil
	}
	var names []string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}
		position := strings.ReplaceAll(strings.ToLower(strippedText(tds.Eq(0))), "\u00a0", "")
		if _, skip := excludedPositions[position]; skip {
			return
		}
		names = append(names, strippedText(tds.Eq(1)))
	})
	return names
}

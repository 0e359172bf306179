package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Fields fetches a race's events page and returns its fields. The URL is used
// as given; no host check is applied.
func (s *Service) Fields(ctx context.Context, raceURL string) ([]Field, error) {
	doc, err := s.fetchDocument(ctx, raceURL)
	if err != nil {
		return nil, err
	}
	fields := ParseFields(doc, FieldsBaseURL(raceURL))
	s.logger.Debug("fields extracted", zap.String("url", raceURL), zap.Int("count", len(fields)))
	return fields, nil
}

// ParseFields reads every table row whose first two cells carry a link.
// Rows with a blank entries cell belong to fields that are not open yet and
// are skipped.
func ParseFields(doc *goquery.Document, baseURL string) []Field {
	fields := make([]Field, 0)
	doc.Find(tableSelector).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			tds := tr.Find("td")
			if tds.Length() < 2 {
				return
			}
			codeLink := tds.Eq(0).Find("a").First()
			nameLink := tds.Eq(1).Find("a").First()
			if codeLink.Length() == 0 || nameLink.Length() == 0 {
				return
			}
			var entries, remarks string
			if tds.Length() > 2 {
				entries = strippedText(tds.Eq(2))
			}
			if strings.TrimSpace(entries) == "" {
				return
			}
			if tds.Length() > 3 {
				remarks = strippedText(tds.Eq(3))
			}
			href, _ := nameLink.Attr("href")
			fields = append(fields, Field{
				Code:    strippedText(tds.Eq(0)),
				Name:    strippedText(tds.Eq(1)),
				URL:     joinFieldURL(baseURL, href),
				Entries: entries,
				Remarks: remarks,
			})
		})
	})
	return fields
}

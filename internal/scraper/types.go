package scraper

import (
	"net/http"
	"time"
)

// Race is one regatta listed on the results overview page.
type Race struct {
	Name string `json:"name"`
	Date string `json:"date"`
	URL  string `json:"url"`
}

// Field is one event (boat class / category) of a race.
type Field struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Entries string `json:"entries"`
	Remarks string `json:"remarks"`
}

// CrewEntry is a boat discovered on an entries or draw page. Link is relative
// to the field's base URL.
type CrewEntry struct {
	BoatName string
	Link     string
}

// ResultKind tags how a CrewResult was produced.
type ResultKind int

const (
	// ResultPrimary means the crew table was found and yielded rowers.
	ResultPrimary ResultKind = iota
	// ResultFallback means no rowers were found and the page heading was used.
	ResultFallback
)

func (k ResultKind) String() string {
	switch k {
	case ResultPrimary:
		return "primary"
	case ResultFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// CrewResult is the outcome of scraping one crew page.
type CrewResult struct {
	Kind     ResultKind
	BoatName string
	// Members is set for ResultPrimary.
	Members []string
	// Heading is set for ResultFallback.
	Heading string
}

// FetchRequest describes a single page download.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse holds the downloaded page and basic metadata.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

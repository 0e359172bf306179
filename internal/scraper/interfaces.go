package scraper

import "context"

// Fetcher fetches a URL and returns the body plus metadata. Implementations
// return *FetchError for transport failures and non-success statuses.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

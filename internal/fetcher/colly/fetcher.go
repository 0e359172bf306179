// Package collyfetcher implements scraper.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/JakeFAU/regatta-results-api/internal/metrics"
	"github.com/JakeFAU/regatta-results-api/internal/scraper"
)

const defaultTimeout = 15 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements scraper.Fetcher with one Colly collector per request.
// Collectors are never shared, so concurrent Fetch calls are safe; only the
// transport is reused.
type Fetcher struct {
	cfg       Config
	transport http.RoundTripper
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// fetchState collects what the collector callbacks observe for one visit.
type fetchState struct {
	result scraper.FetchResponse
	status int
	err    error
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Fetcher{
		cfg:       cfg,
		transport: newHTTPTransport(),
	}
}

// Fetch executes a single HTTP GET using Colly. Transport failures and
// non-success statuses are returned as *scraper.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, request scraper.FetchRequest) (scraper.FetchResponse, error) {
	state := &fetchState{}
	collector := f.buildCollector(request, time.Now(), state)

	outcome, err := f.runCollector(ctx, collector, request.URL, state)
	metrics.ObserveFetch(request.URL, outcome.status, len(outcome.result.Body))
	if err != nil {
		return scraper.FetchResponse{}, &scraper.FetchError{
			URL:        request.URL,
			StatusCode: outcome.status,
			Err:        err,
		}
	}
	return outcome.result, nil
}

func (f *Fetcher) buildCollector(request scraper.FetchRequest, start time.Time, state *fetchState) *colly.Collector {
	collector := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.WithTransport(f.transport)
	collector.SetRequestTimeout(f.cfg.Timeout)

	f.configureCollectorHooks(collector, request, start, state)
	return collector
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	request scraper.FetchRequest,
	start time.Time,
	state *fetchState,
) {
	hooks.OnRequest(func(r *colly.Request) {
		f.copyHeaders(request, r)
	})

	hooks.OnResponse(func(r *colly.Response) {
		state.status = r.StatusCode
		state.result = scraper.FetchResponse{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			state.status = r.StatusCode
		}
		state.err = err
	})
}

// runCollector visits url and returns a copy of the state taken on the
// visiting goroutine once Visit has returned. A canceled ctx abandons the
// visit and yields an empty state.
func (f *Fetcher) runCollector(
	ctx context.Context,
	collector *colly.Collector,
	url string,
	state *fetchState,
) (fetchState, error) {
	done := make(chan fetchState, 1)
	go func() {
		err := collector.Visit(url)
		snapshot := *state
		if snapshot.err == nil {
			snapshot.err = err
		}
		done <- snapshot
	}()

	select {
	case <-ctx.Done():
		return fetchState{}, fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case outcome := <-done:
		if outcome.err != nil {
			return outcome, fmt.Errorf("colly visit failed: %w", outcome.err)
		}
		if outcome.status < 200 || outcome.status > 299 {
			return outcome, errors.New(statusText(outcome.status))
		}
		return outcome, nil
	}
}

func (f *Fetcher) copyHeaders(request scraper.FetchRequest, r *colly.Request) {
	if request.Headers == nil {
		return
	}
	for key, values := range request.Headers {
		for _, v := range values {
			r.Headers.Add(key, v)
		}
	}
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("unexpected status %d %s", code, text)
	}
	return fmt.Sprintf("unexpected status %d", code)
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

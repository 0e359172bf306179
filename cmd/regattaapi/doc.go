// Package main hosts the regatta results entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api exposes /races, /fields and /entries as JSON, plus health, metrics and the bundled
//     browser client. Query parameters are validated before any upstream request is made.
//   - Scrape pipeline: internal/scraper parses the TimeTeam overview, events and entries pages. Crew pages for a
//     field are fetched concurrently through an errgroup bounded by config.Entries.MaxParallel; a failed crew page
//     is logged and dropped without failing the rest of the field.
//   - Fetch layer: every upstream page goes through the Colly-based fetcher, which builds a fresh collector per
//     request over one shared transport so concurrent fetches never share visit state.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured logging; Prometheus
//     metrics are exported via the metrics middleware and /metrics handler.
//
// Operational notes:
//   - The service keeps no state between requests. Every call re-reads the upstream site.
//   - No caching or rate limiting is applied. A single /entries request issues one request per unique crew.
//   - The HTTP server listens on the configured port (overridable via PORT) and drains in-flight requests on SIGTERM.
//
// Quick checklist:
//   - Configure env vars: REGATTA_SERVER_PORT or PORT, REGATTA_HTTP_TIMEOUT_SECONDS, REGATTA_ENTRIES_MAX_PARALLEL,
//     REGATTA_CORS_ALLOWED_ORIGINS and REGATTA_ENTRIES_NORMALIZE_FALLBACK.
//   - Run locally: go run ./cmd/regattaapi serve --config config.yaml (or rely solely on env overrides).
//   - One-shot: go run ./cmd/regattaapi entries --url <entries page> prints the same JSON as /entries.
package main

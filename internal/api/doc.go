// Package api hosts the HTTP server, middleware, and read-only handlers.
// Notable routes:
//   - GET /races, /fields?race_url=, /entries?race_url= for scraped results.
//   - GET / and /static/* for the bundled browser client.
//   - GET /healthz / readyz for probes and /metrics for Prometheus scraping.
package api

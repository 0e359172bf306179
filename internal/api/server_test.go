package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/regatta-results-api/internal/config"
	"github.com/JakeFAU/regatta-results-api/internal/scraper"
)

type fakeScraper struct {
	races      []scraper.Race
	fields     []scraper.Field
	crews      []scraper.CrewResult
	err        error
	gotURL     string
	panicOnAny bool
}

func (f *fakeScraper) Races(_ context.Context) ([]scraper.Race, error) {
	if f.panicOnAny {
		panic("boom")
	}
	return f.races, f.err
}

func (f *fakeScraper) Fields(_ context.Context, raceURL string) ([]scraper.Field, error) {
	f.gotURL = raceURL
	return f.fields, f.err
}

func (f *fakeScraper) Entries(_ context.Context, pageURL string) ([]scraper.CrewResult, error) {
	f.gotURL = pageURL
	return f.crews, f.err
}

func testConfig() config.Config {
	return config.Config{
		Server:  config.ServerConfig{Port: 8080, RequestTimeoutSeconds: 5},
		HTTP:    config.HTTPConfig{TimeoutSeconds: 5},
		Entries: config.EntriesConfig{MaxParallel: 2},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func serve(t *testing.T, srv *Server, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Races(t *testing.T) {
	t.Parallel()

	fake := &fakeScraper{races: []scraper.Race{
		{Name: "Hollandia", Date: "8 March 2025", URL: "https://regatta.time-team.nl/hollandia/2025/"},
	}}
	rec := serve(t, NewServer(fake, testConfig(), zap.NewNop()), http.MethodGet, "/races", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[{"name":"Hollandia","date":"8 March 2025","url":"https://regatta.time-team.nl/hollandia/2025/"}]`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_RacesEmptyListIsArray(t *testing.T) {
	t.Parallel()

	fake := &fakeScraper{races: []scraper.Race{}}
	rec := serve(t, NewServer(fake, testConfig(), zap.NewNop()), http.MethodGet, "/races", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_RacesUpstreamFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeScraper{err: &scraper.FetchError{URL: "https://time-team.nl", StatusCode: 503, Err: errors.New("unavailable")}}
	rec := serve(t, NewServer(fake, testConfig(), zap.NewNop()), http.MethodGet, "/races", nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Error fetching races")
}

func TestServer_Fields(t *testing.T) {
	t.Parallel()

	fake := &fakeScraper{fields: []scraper.Field{
		{Code: "M8+", Name: "Men's Eights", URL: "https://r.test/entries/001.php", Entries: "12"},
	}}
	srv := NewServer(fake, testConfig(), zap.NewNop())
	rec := serve(t, srv, http.MethodGet, "/fields?race_url=https%3A%2F%2Fr.test%2Fevents.php", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://r.test/events.php", fake.gotURL)
	require.JSONEq(t, `[{"code":"M8+","name":"Men's Eights","url":"https://r.test/entries/001.php","entries":"12","remarks":""}]`, rec.Body.String())
}

func TestServer_FieldsErrors(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeScraper{}, testConfig(), zap.NewNop())
	rec := serve(t, srv, http.MethodGet, "/fields", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "race_url is required")

	failing := NewServer(&fakeScraper{err: errors.New("dial tcp: refused")}, testConfig(), zap.NewNop())
	rec = serve(t, failing, http.MethodGet, "/fields?race_url=https://r.test/events.php", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Error fetching fields: dial tcp: refused")
}

func TestServer_EntriesCompatibilityShape(t *testing.T) {
	t.Parallel()

	fake := &fakeScraper{crews: []scraper.CrewResult{
		{Kind: scraper.ResultPrimary, BoatName: "Nereus 1", Members: []string{"A Name", "C Name"}},
		{Kind: scraper.ResultFallback, BoatName: "Laga 2", Heading: "Entry 102"},
	}}
	rec := serve(t, NewServer(fake, testConfig(), zap.NewNop()), http.MethodGet, "/entries?race_url=https://r.test/entries/001.php", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"results":[
		{"name":"Nereus 1","crew_members":["A Name","C Name"]},
		{"name":"Entry 102","crew_members":"Laga 2"}
	]}`, rec.Body.String())
}

func TestServer_EntriesNormalizedFallback(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Entries.NormalizeFallback = true
	fake := &fakeScraper{crews: []scraper.CrewResult{
		{Kind: scraper.ResultFallback, BoatName: "Laga 2", Heading: "Entry 102"},
	}}
	rec := serve(t, NewServer(fake, cfg, zap.NewNop()), http.MethodGet, "/entries?race_url=https://r.test/draw/001.php", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body scraper.EntriesJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	require.Equal(t, "Laga 2", body.Results[0].Name)
	require.Equal(t, "Entry 102", body.Results[0].Heading)
}

func TestServer_EntriesFailureIsInternalError(t *testing.T) {
	t.Parallel()

	fake := &fakeScraper{err: &scraper.FetchError{URL: "https://r.test/entries/1.php", StatusCode: 404, Err: errors.New("Not Found")}}
	rec := serve(t, NewServer(fake, testConfig(), zap.NewNop()), http.MethodGet, "/entries?race_url=https://r.test/entries/1.php", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "status 404")

	rec = serve(t, NewServer(fake, testConfig(), zap.NewNop()), http.MethodGet, "/entries", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	rec := serve(t, NewServer(&fakeScraper{panicOnAny: true}, testConfig(), zap.NewNop()), http.MethodGet, "/races", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeScraper{races: []scraper.Race{}}, testConfig(), zap.NewNop())

	rec := serve(t, srv, http.MethodGet, "/races", map[string]string{"Origin": "https://app.example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, rec.Header().Values("Vary"), "Origin")

	rec = serve(t, srv, http.MethodOptions, "/entries", map[string]string{
		"Origin":                         "https://app.example.com",
		"Access-Control-Request-Method":  "GET",
		"Access-Control-Request-Headers": "X-Custom",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	require.Empty(t, rec.Body.String())
}

func TestServer_CORSRestrictedOrigins(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}
	srv := NewServer(&fakeScraper{races: []scraper.Race{}}, cfg, zap.NewNop())

	rec := serve(t, srv, http.MethodGet, "/races", map[string]string{"Origin": "https://evil.example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(t, srv, http.MethodGet, "/races", map[string]string{"Origin": "https://app.example.com"})
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(t, srv, http.MethodOptions, "/races", map[string]string{
		"Origin":                        "https://evil.example.com",
		"Access-Control-Request-Method": "GET",
	})
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestServer_CORSRejectsWriteMethods(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeScraper{}, testConfig(), zap.NewNop())
	rec := serve(t, srv, http.MethodOptions, "/entries", map[string]string{
		"Origin":                        "https://app.example.com",
		"Access-Control-Request-Method": "DELETE",
	})
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StaticAssets(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeScraper{}, testConfig(), zap.NewNop())

	rec := serve(t, srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Regatta Results")
	require.Contains(t, rec.Body.String(), `<script src="/static/points.js"></script>`)

	rec = serve(t, srv, http.MethodGet, "/static/app.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/entries")

	rec = serve(t, srv, http.MethodGet, "/static/points.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "https://api.foys.io/tournament/public/api/v1/persons")

	rec = serve(t, srv, http.MethodGet, "/static/missing.js", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StaticDirOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>custom</h1>"), 0o600))
	cfg := testConfig()
	cfg.Server.StaticDir = dir

	rec := serve(t, NewServer(&fakeScraper{}, cfg, zap.NewNop()), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "custom")
}

func TestServer_OperationalEndpoints(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeScraper{}, testConfig(), zap.NewNop())
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := serve(t, srv, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := serve(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "http_requests_total")
}

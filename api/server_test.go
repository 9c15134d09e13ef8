package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/newsvoice/internal/config"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.Speech.OutputDir == "" {
		cfg.Speech.OutputDir = t.TempDir()
	}
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var env APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d, want 200", path, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if !env.Success {
			t.Errorf("%s: success = false", path)
		}
	}
}

func TestProcessNewsRequiresCompany(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty company", `{"company": ""}`},
		{"missing field", `{}`},
		{"garbage body", `{not json`},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/news/process", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tt.name, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Success || env.Error == "" {
			t.Errorf("%s: expected error envelope, got %+v", tt.name, env)
		}
	}
}

func TestProcessNewsNoSourcesConfigured(t *testing.T) {
	srv := newTestServer(t, nil)

	body := bytes.NewReader([]byte(`{"company": "Tesla"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/process", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d, want 503", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("success = true for failed fetch")
	}
}

const testPageHTML = `<html><head>
<title>Tesla posts record quarterly deliveries</title>
<meta name="description" content="Tesla reported record deliveries and strong growth this quarter.">
</head><body><p>body</p></body></html>`

func TestProcessNewsEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPageHTML))
	}))
	defer upstream.Close()

	cfg := &config.Config{}
	cfg.Sources.ArticleURLs = []string{upstream.URL}
	cfg.Sources.RatePerSec = 100
	cfg.Analysis.TopArticles = 5
	srv := newTestServer(t, cfg)

	body := bytes.NewReader([]byte(`{"company": "Tesla"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/process", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Company string `json:"company"`
			Result  struct {
				Articles []struct {
					Title          string  `json:"title"`
					SentimentLabel string  `json:"sentiment_label"`
					RelevanceScore float64 `json:"relevance_score"`
				} `json:"articles"`
				Summary struct {
					TotalArticles int    `json:"total_articles"`
					DominantLabel string `json:"dominant_label"`
				} `json:"summary"`
			} `json:"result"`
			ComparativeReport string `json:"comparative_report"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !env.Success {
		t.Fatal("success = false")
	}
	if env.Data.Company != "Tesla" {
		t.Errorf("company = %q", env.Data.Company)
	}
	if env.Data.Result.Summary.TotalArticles != 1 {
		t.Fatalf("total = %d, want 1", env.Data.Result.Summary.TotalArticles)
	}
	article := env.Data.Result.Articles[0]
	if article.RelevanceScore <= 0 || article.RelevanceScore > 100 {
		t.Errorf("relevance = %v, want in (0, 100]", article.RelevanceScore)
	}
	if !strings.Contains(env.Data.ComparativeReport, "Comparative Analysis for Tesla:") {
		t.Errorf("report missing header:\n%s", env.Data.ComparativeReport)
	}
}

func TestAudioNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news/audio", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestSourcesEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sources.Feeds = []config.FeedConfig{{Name: "times", URL: "https://example.com/rss"}}
	cfg.Sources.ArticleURLs = []string{"https://example.com/story"}
	srv := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"times", "https://example.com/rss", "https://example.com/story"} {
		if !strings.Contains(body, want) {
			t.Errorf("sources response missing %q:\n%s", want, body)
		}
	}
}

func TestNewServerRejectsUnknownScorer(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analysis.SentimentScorer = "nonexistent"
	if _, err := NewServer(cfg); err == nil {
		t.Fatal("expected error for unknown sentiment scorer")
	}
}

func TestWSHubBroadcast(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := &WSClient{hub: hub, send: make(chan WSMessage, 4)}
	hub.Register(client)

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast(WSMessage{Type: "pipeline_stage", Data: "scoring"})

	select {
	case msg := <-client.send:
		if msg.Type != "pipeline_stage" {
			t.Errorf("type = %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached client")
	}

	hub.Unregister(client)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestWSHubDropsSlowClient(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	// Unbuffered send channel with no reader: first broadcast disconnects it.
	client := &WSClient{hub: hub, send: make(chan WSMessage)}
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast(WSMessage{Type: "pipeline_stage"})
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

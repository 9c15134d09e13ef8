// Package api provides the HTTP REST API server for NewsVoice.
//
// It exposes endpoints for running the news sentiment pipeline, fetching
// the generated audio report, listing sources, and WebSocket streaming of
// pipeline progress.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/newsvoice/internal/analysis/relevance"
	"github.com/seenimoa/newsvoice/internal/analysis/sentiment"
	"github.com/seenimoa/newsvoice/internal/config"
	"github.com/seenimoa/newsvoice/internal/datasource"
	"github.com/seenimoa/newsvoice/internal/pipeline"
	"github.com/seenimoa/newsvoice/internal/report"
	"github.com/seenimoa/newsvoice/internal/speech"
)

// audioFileName is the fixed name of the generated spoken report.
const audioFileName = "sentiment_report.mp3"

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	news   *datasource.News
	engine *pipeline.Engine
	trans  speech.Translator
	tts    speech.Synthesizer
	wsHub  *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	scorer, err := sentiment.New(cfg.Analysis.SentimentScorer)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:   cfg,
		news:  datasource.NewNews(cfg.Sources),
		trans: speech.NewGoogleTranslator(),
		tts:   speech.NewGoogleTTS(),
		wsHub: NewWSHub(),
	}

	srv.engine = pipeline.NewEngine(
		scorer,
		relevance.NewFuzzy(),
		pipeline.WithWorkers(cfg.Analysis.ScoringWorkers),
		pipeline.WithStageFunc(func(stage string, detail map[string]any) {
			srv.wsHub.Broadcast(WSMessage{Type: "pipeline_stage", Data: map[string]any{
				"stage":  stage,
				"detail": detail,
			}})
		}),
	)

	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Pipeline
		r.Post("/news/process", s.handleProcessNews)

		// Spoken report
		r.Get("/news/audio", s.handleAudio)

		// Configured sources
		r.Get("/sources", s.handleSources)

		// WebSocket progress stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ProcessNewsRequest is the body for POST /api/v1/news/process.
type ProcessNewsRequest struct {
	Company string `json:"company"`
	Audio   bool   `json:"audio,omitempty"` // also generate the spoken report
}

// ProcessNewsResponse is the payload for POST /api/v1/news/process.
type ProcessNewsResponse struct {
	Company           string      `json:"company"`
	Result            interface{} `json:"result"` // models.PipelineResult
	ComparativeReport string      `json:"comparative_report"`
	AudioFile         string      `json:"audio_file,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleProcessNews(w http.ResponseWriter, r *http.Request) {
	var req ProcessNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Company == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	records, err := s.news.Fetch(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	result, err := s.engine.ProcessRaw(ctx, records, req.Company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reportText, err := report.Comparative(result, report.Config{
		Company:     req.Company,
		TopArticles: s.cfg.Analysis.TopArticles,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ProcessNewsResponse{
		Company:           req.Company,
		Result:            result,
		ComparativeReport: reportText,
	}

	if req.Audio {
		audioPath := s.audioPath()
		translated, err := s.trans.Translate(ctx, reportText, s.cfg.Speech.Language)
		if err != nil {
			log.Printf("translate failed, synthesizing untranslated report: %v", err)
			translated = reportText
		}
		if err := s.tts.Synthesize(ctx, translated, s.cfg.Speech.Language, audioPath); err != nil {
			log.Printf("tts failed: %v", err)
		} else {
			resp.AudioFile = audioFileName
		}
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "pipeline_complete",
		Data: map[string]interface{}{
			"company":        req.Company,
			"total_articles": result.Summary.TotalArticles,
			"dominant_label": result.Summary.DominantLabel,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	path := s.audioPath()
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "audio report not found")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "attachment; filename="+audioFileName)
	http.ServeFile(w, r, path)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"feeds":        s.news.Sources(),
			"article_urls": s.cfg.Sources.ArticleURLs,
		},
	})
}

func (s *Server) audioPath() string {
	dir := s.cfg.Speech.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, audioFileName)
}

// ============================================================
// JSON helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/masaki2607/oneview-matching/internal/config"
	"github.com/masaki2607/oneview-matching/internal/db"
	"github.com/masaki2607/oneview-matching/internal/explain"
	"github.com/masaki2607/oneview-matching/internal/llm"
	"github.com/masaki2607/oneview-matching/internal/matching"
	"github.com/masaki2607/oneview-matching/internal/similarity"
)

// Server represents the HTTP server.
type Server struct {
	httpServer   *http.Server
	db           *db.DB
	matcher      *matching.Service
	explainer    *explain.Generator
	allowOrigins []string
	defaultTopK  int
}

// New creates a server instance: it connects to the database, wires the
// similarity backend (embeddings when enabled, lexical fallback otherwise),
// the explanation generator and the matching service, and sets up routes.
func New(cfg config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var scorer similarity.Scorer = similarity.Lexical{}
	if cfg.EnableEmbeddings {
		embedding, err := similarity.NewEmbedding(context.Background(), cfg.APIKey, "")
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create embedding scorer: %w", err)
		}
		scorer = embedding
	}

	var generator *explain.Generator
	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), nil, cfg.APIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		generator = explain.New(client, scorer, nil)
	} else {
		// No key: explanations degrade to the deterministic fallback text.
		generator = explain.New(nil, scorer, nil)
	}

	s := &Server{
		db:           database,
		matcher:      matching.NewService(database, matching.NewEngine(scorer), generator),
		explainer:    generator,
		allowOrigins: cfg.AllowOrigins,
		defaultTopK:  cfg.TopK,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Ranking scans the full catalog
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request multiplexer.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Matching endpoints
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /match/by-id", s.handleMatchByID)
	mux.HandleFunc("POST /match/by-id-with-reason", s.handleMatchByIDWithReason)
	mux.HandleFunc("POST /match/rankings", s.handleRankings)
	mux.HandleFunc("POST /match/rank-ui", s.handleRankUI)
	mux.HandleFunc("POST /match/generate-reason", s.handleGenerateReason)

	// Job posting endpoints
	mux.HandleFunc("POST /job-postings", s.handleCreateJobPosting)
	mux.HandleFunc("GET /job-postings", s.handleListJobPostings)
	mux.HandleFunc("GET /job-postings/{id}", s.handleGetJobPosting)

	// Score audit trail
	mux.HandleFunc("GET /job-seekers/{id}/matching-scores", s.handleListMatchingScores)

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for the configured origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(s.allowOrigins, "*") || slices.Contains(s.allowOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealthz returns server health status.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service failure to a response: lookup failures keep
// their message, anything unexpected renders as a generic 500.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

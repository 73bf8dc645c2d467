package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayomide/resumeforge/internal/llm"
	"github.com/ayomide/resumeforge/internal/rendering"
	"github.com/ayomide/resumeforge/internal/server/ratelimit"
	"github.com/ayomide/resumeforge/internal/session"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	sessions   *session.Manager
	llm        llm.Client
	limiter    *ratelimit.Limiter
}

// Config holds server configuration.
type Config struct {
	Port       int
	APIKey     string
	LLMTimeout time.Duration
	SessionTTL time.Duration

	// GenerateLimit caps generation calls per client per minute.
	// Zero disables limiting.
	GenerateLimit int
}

// New creates a server with a Gemini-backed model client.
func New(cfg Config) (*Server, error) {
	client, err := llm.NewGeminiClient(context.Background(), cfg.APIKey, cfg.LLMTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a server around an existing model client. Tests use
// this with a stub client.
func NewWithClient(cfg Config, client llm.Client) *Server {
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = session.DefaultTTL
	}

	s := &Server{
		sessions: session.NewManager(ttl),
		llm:      client,
		limiter:  ratelimit.NewLimiter(cfg.GenerateLimit, time.Minute),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // model calls and PDF runs are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the route table wrapped in the middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleListTemplates)

	// Session lifecycle
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /sessions/{id}/profile", s.handleUpdateProfile)

	// Entry collections, uniform across the four kinds
	mux.HandleFunc("GET /sessions/{id}/entries/{kind}", s.handleListEntries)
	mux.HandleFunc("POST /sessions/{id}/entries/{kind}", s.handleAddEntry)
	mux.HandleFunc("PUT /sessions/{id}/entries/{kind}/{entry_id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /sessions/{id}/entries/{kind}/{entry_id}", s.handleDeleteEntry)
	mux.HandleFunc("POST /sessions/{id}/entries/{kind}/{entry_id}/edit", s.handleEditEntry)
	mux.HandleFunc("POST /sessions/{id}/entries/{kind}/edit/cancel", s.handleCancelEdit)

	// Generation tasks
	mux.HandleFunc("POST /sessions/{id}/generate/skills", s.handleSuggestSkills)
	mux.HandleFunc("POST /sessions/{id}/generate/summary", s.handleRefineSummary)
	mux.HandleFunc("POST /sessions/{id}/generate/enhance", s.handleEnhanceExperience)
	mux.HandleFunc("POST /sessions/{id}/generate/resume", s.handleGenerateResume)
	mux.HandleFunc("POST /sessions/{id}/generate/resume/refine", s.handleRefineResume)
	mux.HandleFunc("POST /sessions/{id}/generate/cover-letter", s.handleGenerateCoverLetter)
	mux.HandleFunc("POST /sessions/{id}/skills/select", s.handleSelectSkills)

	// Document outputs
	mux.HandleFunc("GET /sessions/{id}/resume.pdf", s.handleResumePDF)
	mux.HandleFunc("GET /sessions/{id}/resume.txt", s.handleResumeText)
	mux.HandleFunc("GET /sessions/{id}/cover-letter.txt", s.handleCoverLetterText)

	// Data management
	mux.HandleFunc("GET /sessions/{id}/export", s.handleExport)
	mux.HandleFunc("POST /sessions/{id}/import", s.handleImport)

	return s.withLogging(s.withCORS(s.withGenerateLimit(mux)))
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

	s.limiter.Stop()
	s.sessions.Stop()
	if err := s.llm.Close(); err != nil {
		log.Printf("Error closing model client: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
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

// withGenerateLimit rate-limits the generation routes only; CRUD and render
// endpoints are local work and stay unlimited.
func (s *Server) withGenerateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/generate/") {
			next.ServeHTTP(w, r)
			return
		}

		allowed, retryAfter := s.limiter.Allow(s.extractClientID(r))
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTemplates returns the registered PDF template names.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": rendering.TemplateNames(),
		"default":   rendering.DefaultTemplate,
	})
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

// failWith maps a typed failure to its status and writes the response.
func (s *Server) failWith(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

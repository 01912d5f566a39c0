package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kobonk/expenses-tracker/internal/services"
)

type Server struct {
	http.Server
	service *services.ExpenseService

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, service *services.ExpenseService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		service: service,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /expenses", s.withRequestLogging(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses", s.withRequestLogging(s.handleListExpenses))
	mux.HandleFunc("GET /expenses/filter", s.withRequestLogging(s.handleFilterExpenses))
	mux.HandleFunc("GET /expenses/names", s.withRequestLogging(s.handleSimilarNames))
	mux.HandleFunc("GET /expenses/common-cost", s.withRequestLogging(s.handleCommonCost))
	mux.HandleFunc("GET /expenses/{id}", s.withRequestLogging(s.handleGetExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.withRequestLogging(s.handleUpdateExpense))

	mux.HandleFunc("GET /months", s.withRequestLogging(s.handleListMonths))
	mux.HandleFunc("GET /categories", s.withRequestLogging(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.withRequestLogging(s.handleCreateCategory))
	mux.HandleFunc("GET /tags", s.withRequestLogging(s.handleListTags))
	mux.HandleFunc("GET /suggestions", s.withRequestLogging(s.handleSuggestions))
	mux.HandleFunc("GET /statistics", s.withRequestLogging(s.handleStatistics))

	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestLogging adds a request id, security headers, and request
// logging to responses.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

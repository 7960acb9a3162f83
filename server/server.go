package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/axent-pl/idtoken/common"
	"github.com/axent-pl/idtoken/config"
	"github.com/axent-pl/idtoken/idtoken"
	"github.com/axent-pl/idtoken/jwks"
)

type TokenVerifier interface {
	VerifyAny(ctx context.Context, token string, audiences []string) (*idtoken.Payload, error)
}

type KeyStatus interface {
	Status() jwks.Status
}

type Server struct {
	config    config.ServerConfig
	verifier  TokenVerifier
	audiences []string
	keys      KeyStatus
	metrics   http.Handler
	logger    *slog.Logger
	server    *http.Server
}

// New wires the token-info service. metrics may be nil.
func New(cfg config.ServerConfig, verifier TokenVerifier, audiences []string, keys KeyStatus, metrics http.Handler, logger *slog.Logger) *Server {
	return &Server{
		config:    cfg,
		verifier:  verifier,
		audiences: audiences,
		keys:      keys,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tokeninfo", s.handleTokenInfo)
	mux.HandleFunc("GET /v1/keys", s.handleKeys)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return s.loggingMiddleware(mux)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.GetPort()),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	token, err := credentialFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	payload, err := s.verifier.VerifyAny(r.Context(), token, s.audiences)
	switch {
	case err == nil && payload.IsIdentity():
		s.writeJSON(w, http.StatusOK, payload)
	case err == nil, errors.Is(err, common.ErrInvalidCredentials):
		// the reason stays in the logs
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
	default:
		s.logger.Error("Token verification failed", "error", err, "request_id", requestID(r))
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily_unavailable"})
	}
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.keys.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"request_id", id,
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

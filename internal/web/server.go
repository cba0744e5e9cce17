package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/imagestore"
	"github.com/vbonduro/plantsage/internal/service"
)

type Server struct {
	service *service.AnalysisService
	images  imagestore.ImageStore
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svc *service.AnalysisService, images imagestore.ImageStore, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		images:  images,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /api/analyses/weather", s.handleWeatherAnalysis)
	s.mux.HandleFunc("POST /api/analyses/{kind}", s.handleImageAnalysis)

	s.mux.HandleFunc("POST /api/chat/{persona}", s.handleChat)
	s.mux.HandleFunc("POST /api/translate", s.handleTranslate)

	s.mux.HandleFunc("GET /api/history", s.handleListHistory)
	s.mux.HandleFunc("GET /api/history/{id}", s.handleGetHistory)
	s.mux.HandleFunc("DELETE /api/history/{id}", s.handleDeleteHistory)
	s.mux.HandleFunc("GET /api/history/{id}/image", s.handleGetHistoryImage)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeAnalysisError maps the error taxonomy onto HTTP statuses. Input
// problems echo their message; provider and parse failures get fixed generic
// messages so raw model text never reaches the client.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var inputErr *analysis.InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": inputErr.Msg})
		return
	}
	var requestErr *analysis.RequestError
	if errors.As(err, &requestErr) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "the analysis service is unavailable, please try again",
		})
		return
	}
	var parseErr *analysis.ParseError
	if errors.As(err, &parseErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "analysis failed"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

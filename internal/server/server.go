// Package server exposes written report directories as a read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/internal/writer"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Config holds server configuration
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the default server configuration, local-only.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server serves the reports found under a root directory.
type Server struct {
	root   string
	router *mux.Router
	server *http.Server
	log    *logger.Logger
}

type errorResponse struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// NewServer creates a server over the report directories in root.
func NewServer(root string, config Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &Server{
		root:   root,
		router: mux.NewRouter(),
		log:    log,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/reports", s.listReports).Methods(http.MethodGet)
	s.router.HandleFunc("/reports/{id}", s.getReport).Methods(http.MethodGet)
	s.router.HandleFunc("/reports/{id}/advice", s.getAdvice).Methods(http.MethodGet)
	s.router.HandleFunc("/reports/{id}/horizons/{days:[0-9]+}", s.getHorizon).Methods(http.MethodGet)
	s.router.HandleFunc("/reports/{id}/files/{name}", s.getFile).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeDataNotFound, "not found"))
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		requestID, _ := r.Context().Value(requestIDKey).(string)
		s.log.Debug("Request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("Starting report server", zap.String("addr", s.server.Addr), zap.String("root", s.root))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down report server")

	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listReports(w http.ResponseWriter, _ *http.Request) {
	summaries, skipped, err := writer.ListReports(s.root)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	for dir, reason := range skipped {
		s.log.Debug("Skipping directory", zap.String("dir", dir), zap.Error(reason))
	}

	writeJSON(w, http.StatusOK, summaries)
}

// load reads the report named by the id route variable and writes the error response on failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (types.Report, bool) {
	id := mux.Vars(r)["id"]

	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, errors.Newf(errors.ErrCodeInvalidParameter, "invalid report id %q", id))

		return types.Report{}, false
	}

	report, err := writer.ReadReport(filepath.Join(s.root, id))
	if err != nil {
		writeError(w, statusFor(err), err)

		return types.Report{}, false
	}

	return report, true
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// getAdvice lists the latest-bar advice of every horizon in report order.
func (s *Server) getAdvice(w http.ResponseWriter, r *http.Request) {
	report, ok := s.load(w, r)
	if !ok {
		return
	}

	advice := make([]types.Advice, 0, len(report.Horizons))
	for _, h := range report.Horizons {
		advice = append(advice, h.Advice)
	}

	writeJSON(w, http.StatusOK, advice)
}

func (s *Server) getHorizon(w http.ResponseWriter, r *http.Request) {
	report, ok := s.load(w, r)
	if !ok {
		return
	}

	days, err := strconv.Atoi(mux.Vars(r)["days"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidHorizon, "invalid horizon", err))

		return
	}

	for _, h := range report.Horizons {
		if h.HorizonDays == days {
			writeJSON(w, http.StatusOK, h)

			return
		}
	}

	writeError(w, http.StatusNotFound, errors.Newf(errors.ErrCodeDataNotFound, "report has no %d-day horizon", days))
}

// getFile serves one of the parquet files listed by the report. Only listed files are served.
func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	report, ok := s.load(w, r)
	if !ok {
		return
	}

	name := mux.Vars(r)["name"]

	file, listed := report.Files[name]
	if !listed {
		writeError(w, http.StatusNotFound, errors.Newf(errors.ErrCodeDataNotFound, "report has no file %q", name))

		return
	}

	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	http.ServeFile(w, r, filepath.Join(s.root, report.ID, filepath.Base(file)))
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeDataNotFound:
		return http.StatusNotFound
	case errors.ErrCodeVersionMismatch:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// the status line is already written
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Code: errors.GetCode(err), Message: err.Error()})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

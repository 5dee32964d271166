// Package server exposes the conversion pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/convert?format=svg|json|dot|outline   archive body → artifact
//	POST /v1/tree?format=outline|dot               archive body → scene outline
//	POST /v1/inspect                               archive body → stats and warnings (JSON)
//	GET  /healthz
//	GET  /version
//
// Conversion responses carry the number of recovered problems in the
// X-Curvesvg-Warnings header and the cache outcome in X-Curvesvg-Cache.
// Failures are JSON bodies of the form {"code": "...", "message": "..."}:
// structural problems and unsupported versions are 422, unreadable archives
// and bad parameters are 400, oversized uploads are 413.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/curvesvg/pkg/buildinfo"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/observability"
	"github.com/matzehuels/curvesvg/pkg/pipeline"
)

// Response headers.
const (
	HeaderRequestID = "X-Request-Id"
	HeaderWarnings  = "X-Curvesvg-Warnings"
	HeaderCache     = "X-Curvesvg-Cache"
)

// DefaultMaxUploadBytes bounds request bodies when Config leaves it unset.
const DefaultMaxUploadBytes = 64 << 20

// Config configures a Server.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	RequestTimeout time.Duration

	// Options are the base conversion settings; the request picks the format.
	Options pipeline.Options
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/convert", s.handleConvert)
		r.Post("/tree", s.handleTree)
		r.Post("/inspect", s.handleInspect)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatOutline: "image/svg+xml",
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	s.convert(w, r, formatParam(r, pipeline.FormatSVG))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	format := formatParam(r, pipeline.FormatOutline)
	if format != pipeline.FormatOutline && format != pipeline.FormatDOT {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree format must be outline or dot"))
		return
	}
	s.convert(w, r, format)
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request, format string) {
	res, ok := s.execute(w, r, format)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

type warningBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type inspectBody struct {
	Stats    pipeline.Stats `json:"stats"`
	Warnings []warningBody  `json:"warnings"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	res, ok := s.execute(w, r, pipeline.FormatSVG)
	if !ok {
		return
	}
	body := inspectBody{Stats: res.Stats, Warnings: make([]warningBody, len(res.Warnings))}
	for i, warn := range res.Warnings {
		body.Warnings[i] = warningBody{Code: errors.GetCode(warn), Message: errors.UserMessage(warn)}
	}
	writeJSON(w, http.StatusOK, body)
}

// execute reads the archive body and runs the pipeline for one format. On
// failure the error response has already been written.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, format string) (*pipeline.Result, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if len(data) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body must be a document archive"))
		return nil, false
	}

	opts := s.cfg.Options
	opts.Formats = []string{format}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))

	res, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}

	w.Header().Set(HeaderWarnings, strconv.Itoa(len(res.Warnings)))
	if res.CacheInfo.RenderHit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	return res, true
}

func formatParam(r *http.Request, def string) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return def
}

// =============================================================================
// Errors
// =============================================================================

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeStructural, errors.ErrCodeUnsupportedVersion:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidArchive, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPath, errors.ErrCodeNotFound:
		return http.StatusBadRequest
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code, msg = errors.ErrCodeInvalidInput, "request body too large"
	case code == "":
		code, msg = errors.ErrCodeInternal, "internal error"
	}

	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestIDFrom(r.Context()), "error", err)
	}
	writeJSON(w, status, warningBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID tags each request with the caller's X-Request-Id or a fresh UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestIDFrom returns the request id stored by the server middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Millisecond),
			"request_id", RequestIDFrom(r.Context()))
	})
}

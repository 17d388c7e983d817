// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package kabuctlserver serves report rendering over HTTP.
//
// Routes:
//
//	POST /process-csv/{kind}  multipart upload with the CSV in the "file" field, returns an HTML table
//	GET  /healthz             liveness check
package kabuctlserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlreport"
	"github.com/bufdev/kabuctl/internal/pkg/csvtable"
	"github.com/bufdev/kabuctl/internal/pkg/textdecode"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultMaxUploadBytes is the default limit on the size of a request body.
	DefaultMaxUploadBytes int64 = 10 << 20
	// RequestIDHeader is the response header carrying the request ID.
	RequestIDHeader = "X-Request-Id"

	uploadFieldName = "file"
)

// Processor renders uploaded bytes as an HTML table for a report kind.
//
// *kabuctlreport.Engine implements Processor.
type Processor interface {
	Process(data []byte, kind string) (string, error)
}

// HandlerOption is an option for a new Handler.
type HandlerOption func(*handler)

// WithMaxUploadBytes returns a new HandlerOption that limits the size of a request body.
//
// The default is DefaultMaxUploadBytes.
func WithMaxUploadBytes(maxUploadBytes int64) HandlerOption {
	return func(h *handler) {
		h.maxUploadBytes = maxUploadBytes
	}
}

// WithRateLimiter returns a new HandlerOption that rejects requests beyond the limiter's rate.
//
// The default allows a burst of 30 requests refilled every 100ms.
func WithRateLimiter(limiter *rate.Limiter) HandlerOption {
	return func(h *handler) {
		h.limiter = limiter
	}
}

// NewHandler returns a new http.Handler.
func NewHandler(logger *slog.Logger, processor Processor, options ...HandlerOption) http.Handler {
	h := &handler{
		logger:         logger,
		processor:      processor,
		maxUploadBytes: DefaultMaxUploadBytes,
		limiter:        rate.NewLimiter(rate.Every(100*time.Millisecond), 30),
	}
	for _, option := range options {
		option(h)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process-csv/{kind}", h.handleProcessCSV)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	return h.withRequestID(h.withRateLimit(mux))
}

// StatusForError returns the HTTP status code for an error from Processor.Process.
//
// Errors caused by the upload are 400. Everything else, including a
// *kabuctlrender.MissingLabelError, is a server defect and 500.
func StatusForError(err error) int {
	var (
		unknownReportKindError *kabuctlreport.UnknownReportKindError
		decodeError            *textdecode.DecodeError
		malformedInputError    *csvtable.MalformedInputError
	)
	if errors.As(err, &unknownReportKindError) ||
		errors.As(err, &decodeError) ||
		errors.As(err, &malformedInputError) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// *** PRIVATE ***

type handler struct {
	logger         *slog.Logger
	processor      Processor
	maxUploadBytes int64
	limiter        *rate.Limiter
}

type requestIDKey struct{}

func (h *handler) handleProcessCSV(writer http.ResponseWriter, request *http.Request) {
	logger := h.requestLogger(request)
	kind := request.PathValue("kind")
	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, h.maxUploadBytes))
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			logger.Warn("upload too large", "limit", h.maxUploadBytes)
			http.Error(writer, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		logger.Warn("could not read request body", "error", err)
		http.Error(writer, "could not read request body", http.StatusBadRequest)
		return
	}
	request.Body = io.NopCloser(bytes.NewReader(body))
	file, fileHeader, err := request.FormFile(uploadFieldName)
	if err != nil {
		logger.Warn("could not get uploaded file", "error", err)
		http.Error(writer, `could not get uploaded file, ensure the "file" field is used`, http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		logger.Warn("could not read uploaded file", "error", err)
		http.Error(writer, "could not read uploaded file", http.StatusBadRequest)
		return
	}
	html, err := h.processor.Process(data, kind)
	if err != nil {
		status := StatusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("could not process upload", "kind", kind, "filename", fileHeader.Filename, "error", err)
			http.Error(writer, http.StatusText(status), status)
			return
		}
		logger.Warn("rejected upload", "kind", kind, "filename", fileHeader.Filename, "error", err)
		http.Error(writer, err.Error(), status)
		return
	}
	logger.Info("processed upload", "kind", kind, "filename", fileHeader.Filename, "bytes", len(data))
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(writer, html); err != nil {
		logger.Warn("could not write response", "error", err)
	}
}

func (h *handler) handleHealthz(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(writer, "ok\n")
}

func (h *handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !h.limiter.Allow() {
			h.requestLogger(request).Warn("rate limit exceeded", "method", request.Method, "path", request.URL.Path)
			http.Error(writer, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := uuid.NewString()
		writer.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(writer, request.WithContext(contextWithRequestID(request, requestID)))
	})
}

func (h *handler) requestLogger(request *http.Request) *slog.Logger {
	if requestID, ok := request.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With("request_id", requestID)
	}
	return h.logger
}

func contextWithRequestID(request *http.Request, requestID string) context.Context {
	return context.WithValue(request.Context(), requestIDKey{}, requestID)
}

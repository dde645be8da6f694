package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"minibank.dev/internal/infrastructure/logger"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestIDMiddleware attaches a request ID to each request, honoring an
// X-Request-ID supplied by the caller and minting a fresh one otherwise. The
// request-scoped logger lands in the context under "logger".
func RequestIDMiddleware(next http.HandlerFunc, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		ctx = context.WithValue(ctx, "logger", logger.WithRequestID(requestID))
		r = r.WithContext(ctx)

		next(w, r)
	}
}

// LoggingMiddleware logs request details
func LoggingMiddleware(next http.HandlerFunc, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Context().Value("request_id").(string)
		requestLogger := logger.WithRequestID(requestID)

		requestLogger.LogInfo(r.Context(), "Incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(wrapped, r)

		requestLogger.LogInfo(r.Context(), "Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

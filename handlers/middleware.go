package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "requestLogger"

// RequestIDHeader carries the id that tags a request's log lines.
const RequestIDHeader = "X-Request-Id"

// LoggerFrom extracts the request-scoped logger, or returns fallback.
func LoggerFrom(r *http.Request, fallback *zap.Logger) *zap.Logger {
	if val, ok := r.Context().Value(loggerKey).(*zap.Logger); ok {
		return val
	}
	return fallback
}

// RequestLoggerMiddleware tags each request with an id, stores a logger
// carrying it in the request context and logs the request when done.
func RequestLoggerMiddleware(logger *zap.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		e.Response.Header().Set(RequestIDHeader, id)

		reqLogger := logger.With(zap.String("request_id", id))
		ctx := context.WithValue(e.Request.Context(), loggerKey, reqLogger)
		e.Request = e.Request.WithContext(ctx)

		start := time.Now()
		err := e.Next()
		reqLogger.Debug("request",
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}

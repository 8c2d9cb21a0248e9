// Package logger provides structured logging infrastructure for the console.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRequestID returns a logger with the outgoing request ID attached
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// APIRequest logs one upstream API round trip
func (l *Logger) APIRequest(method, path string, status int, latencyMs float64) {
	l.Debug("api_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
	)
}

// APIError logs an upstream API failure
func (l *Logger) APIError(method, path string, err error) {
	l.Error("api_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// SaveFailed logs a failed inline save
func (l *Logger) SaveFailed(leadID int64, field string, err error) {
	l.Warn("save_failed",
		slog.Int64("lead_id", leadID),
		slog.String("field", field),
		slog.String("error", err.Error()),
	)
}

// BatchProgress logs per-item batch progress
func (l *Logger) BatchProgress(action string, completed, failed, total int) {
	l.Info("batch_progress",
		slog.String("action", action),
		slog.Int("completed", completed),
		slog.Int("failed", failed),
		slog.Int("total", total),
	)
}

// BatchItemError logs an individual batch item failure
func (l *Logger) BatchItemError(action string, leadID int64, err error) {
	l.Warn("batch_item_error",
		slog.String("action", action),
		slog.Int64("lead_id", leadID),
		slog.String("error", err.Error()),
	)
}

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/learnpulse/internal/infrastructure/config"
)

// RequestLogger logs one line per completed request.
func RequestLogger(next http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		attrs := requestAttributes(r, recorder, duration)
		logger.LogAttrs(r.Context(), levelForStatus(recorder.status), "request completed", attrs...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func requestAttributes(r *http.Request, rec *statusRecorder, duration time.Duration) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rec.status),
		slog.Duration("duration", duration),
		slog.Int("response_bytes", rec.bytes),
	}

	appendStringAttr(&attrs, "query", r.URL.RawQuery)
	appendStringAttr(&attrs, "user_agent", r.Header.Get("User-Agent"))
	appendStringAttr(&attrs, "request_id", r.Header.Get("X-Request-Id"))
	appendStringAttr(&attrs, "client_ip", firstForwardedFor(r.Header))
	appendStringAttr(&attrs, "remote_addr", r.RemoteAddr)
	appendStringAttr(&attrs, "content_type", r.Header.Get("Content-Type"))
	return attrs
}

func appendStringAttr(attrs *[]slog.Attr, key, value string) {
	if value == "" {
		return
	}
	*attrs = append(*attrs, slog.String(key, value))
}

func firstForwardedFor(header http.Header) string {
	forwarded := header.Get("X-Forwarded-For")
	if forwarded == "" {
		return ""
	}
	for _, part := range strings.Split(forwarded, ",") {
		if candidate := strings.TrimSpace(part); candidate != "" {
			return candidate
		}
	}
	return ""
}

// NewLogger builds a configured logrus logger from application config.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

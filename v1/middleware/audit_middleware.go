package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	authutils "github.com/hariram-suresh/loom-harmony/v1/utils"
)

// AuditMiddleware captures an audit trail of state-changing requests:
// who did what against which resource, and with what outcome.
type AuditMiddleware struct {
	logger *slog.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware() *AuditMiddleware {
	return &AuditMiddleware{logger: slog.Default().With("component", "audit")}
}

// AuditLoggingMiddleware returns a middleware function that logs all requests
func (m *AuditMiddleware) AuditLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.shouldSkipAudit(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		responseWrapper := &responseWriter{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		startTime := time.Now()
		next.ServeHTTP(responseWrapper, r)
		duration := time.Since(startTime)

		actor := "anonymous"
		role := ""
		if user, err := authutils.GetAuthenticatedUser(r.Context()); err == nil {
			actor = user.UserID
			role = user.GetPrimaryRole().String()
		}

		m.logger.Info("request audited",
			"actor", actor,
			"role", role,
			"method", r.Method,
			"path", r.URL.Path,
			"status", responseWrapper.statusCode,
			"duration_ms", duration.Milliseconds(),
			"ip", getClientIP(r),
			"user_agent", r.Header.Get("User-Agent"))
	})
}

// shouldSkipAudit determines if audit logging should be skipped for this path
func (m *AuditMiddleware) shouldSkipAudit(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
	}

	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the response status
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write captures the response body
func (rw *responseWriter) Write(data []byte) (int, error) {
	rw.body.Write(data)
	return rw.ResponseWriter.Write(data)
}

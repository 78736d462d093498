package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request: method, path, matched route, status,
// latency, response size, client IP, and whether the navigation was an htmx
// boosted request. 5xx responses log at Error, 4xx at Warn, the rest at Info.
//
// The *Context logging methods let the logger's context middleware attach the
// request_id set by RequestID.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "shell"
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if IsHTMX(c) {
			attrs = append(attrs, slog.Bool("htmx", true))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}

// IsHTMX reports whether the request was issued by htmx (boosted link or form).
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

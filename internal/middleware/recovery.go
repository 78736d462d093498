package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/pkg"
)

// Recovery catches panics that escape the page error boundary (middleware,
// header rendering, API handlers), logs them with a stack trace, and answers
// with a 500.
//
// Browsers and htmx requests get the standalone errors/500.html document; every
// other client gets the JSON envelope {"code":500,"message":"internal server error","data":null}.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			c.Abort()
			if wantsHTML(c) {
				renderErrorPage(c)
				return
			}
			c.JSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
			})
		}()
		c.Next()
	}
}

// renderErrorPage renders errors/500.html, falling back to plain text when no
// HTML renderer is configured or the template fails.
func renderErrorPage(c *gin.Context) {
	defer func() {
		if recover() != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{
		"RequestID": GetRequestID(c),
	})
}

func wantsHTML(c *gin.Context) bool {
	if IsHTMX(c) {
		return true
	}
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}

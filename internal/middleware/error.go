package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing one set by a proxy
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := message.Fields{
			"message":    "request",
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client":     c.ClientIP(),
			"request_id": c.GetString("request_id"),
		}
		if status >= http.StatusInternalServerError {
			grip.Error(fields)
			return
		}
		grip.Info(fields)
	}
}

// Recovery turns a panic into a 500 without leaking details to the client
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				grip.Critical(message.Fields{
					"message":    "panic serving request",
					"panic":      r,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString("request_id"),
					"stack":      string(debug.Stack()),
				})
				if !c.Writer.Written() {
					c.String(http.StatusInternalServerError, "Internal Server Error")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

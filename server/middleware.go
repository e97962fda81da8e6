package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/etnz/reserve/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Request-ID"

// contextualLogger gives every request an id and a logger carrying it, and
// logs the request once served.
func contextualLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		ctxLogger := base.With(slog.String("requestID", requestID))
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), ctxLogger))

		start := time.Now()
		c.Next()
		ctxLogger.Info("request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// rateLimit rejects requests beyond the limiter's rate with 429.
func rateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": http.StatusText(http.StatusTooManyRequests)})
			return
		}
		c.Next()
	}
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	REQUEST_ID_HEADER = "X-Request-ID"
	requestIDKey      = "request_id"
)

// requestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// echoes it back in the response.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(REQUEST_ID_HEADER)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	c.Set(requestIDKey, requestID)
	c.Header(REQUEST_ID_HEADER, requestID)

	c.Next()
}

func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	status := c.Writer.Status()
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
		zap.Int("status", status),
		zap.Int("response_size", c.Writer.Size()),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", c.GetString(requestIDKey)),
	}

	switch {
	case status >= 500:
		h.logger.Error("HTTP request", fields...)
	case status >= 400:
		h.logger.Warn("HTTP request", fields...)
	default:
		h.logger.Info("HTTP request", fields...)
	}
}

func (h *Handler) metricsMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	h.metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader is the header used to pass a correlation ID in and out of the service.
const CorrelationIDHeader = "X-Correlation-ID"

type ctxKey int

var correlationIDKey ctxKey

// CorrelationID is a Gin middleware that adds a correlation ID to the [http.Request.Context]. The ID
// is taken from the CorrelationIDHeader if the client sent a valid UUID, otherwise one is
// generated. The ID is echoed in the response header.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		ctx := NewContextWithCorrelationID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(CorrelationIDHeader, id)

		c.Next()
	}
}

// NewContextWithCorrelationID returns a new [context.Context] that carries value correlationID.
func NewContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// GetCorrelationID returns the correlation ID stored in the ctx, if any. It had to have been set by
// the [CorrelationID] middleware before.
func GetCorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey).(string)
	return id, ok
}

// RequestLogger logs details like request time, response time, latency and body sizes about every
// request. Errors added to the gin context are logged on status 4xx and 5xx, this is the only
// place internal errors end up since they're never returned to the client. Successful requests to
// quietRoutes, like liveness checks hitting the health route, are logged at debug level.
func RequestLogger(logger *slog.Logger, quietRoutes ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietRoutes))
	for _, route := range quietRoutes {
		quiet[route] = struct{}{}
	}

	return func(c *gin.Context) {
		requestTime := time.Now()

		c.Next()

		responseTime := time.Now()

		params := make(map[string]string, len(c.Params))
		for _, param := range c.Params {
			params[param.Key] = param.Value
		}
		requestAttribute := slog.Group("request",
			slog.Time("time", requestTime),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.String("query", c.Request.URL.RawQuery),
			slog.Any("params", params),
			slog.Int64("size", c.Request.ContentLength),
			slog.String("userAgent", c.Request.UserAgent()),
			slog.String("ip", c.ClientIP()),
		)
		responseAttribute := slog.Group("response",
			slog.Time("time", responseTime),
			slog.Duration("latency", responseTime.Sub(requestTime)),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", max(c.Writer.Size(), 0)),
		)

		const msg = "Processed HTTP request"
		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			logger.LogAttrs(c.Request.Context(), slog.LevelError, msg, slog.String("error", c.Errors.String()), requestAttribute, responseAttribute)
		case status >= http.StatusBadRequest:
			logger.LogAttrs(c.Request.Context(), slog.LevelWarn, msg, slog.String("error", c.Errors.String()), requestAttribute, responseAttribute)
		default:
			level := slog.LevelInfo
			if _, ok := quiet[c.FullPath()]; ok {
				level = slog.LevelDebug
			}
			logger.LogAttrs(c.Request.Context(), level, msg, requestAttribute, responseAttribute)
		}
	}
}

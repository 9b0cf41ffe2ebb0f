package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	ClientIPKey  contextKey = "client_ip"
)

const RequestIDHeader = "X-Request-ID"

// https://github.com/gin-contrib/requestid
func RequestID(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header(RequestIDHeader, requestID)

		// forwarding headers only count when the peer is a trusted proxy
		clientIP := c.ClientIP()

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		ctx = WithClientIP(ctx, clientIP)

		loggerWithID := logger.With().Str("request_id", requestID).Logger()
		ctx = loggerWithID.WithContext(ctx)
		c.Request = c.Request.WithContext(ctx)

		loggerWithID.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("remote_addr", c.Request.RemoteAddr).
			Str("client_ip", clientIP).
			Msg("request started")

		c.Next()

		duration := time.Since(start)
		evt := loggerWithID.Info()
		if c.Writer.Status() >= 500 {
			evt = loggerWithID.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64("duration_ms", duration.Milliseconds()).
			Dur("duration", duration).
			Msg("request completed")
	}
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

// GetClientIP returns the address gin resolved for the request, or "" outside
// the middleware.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}

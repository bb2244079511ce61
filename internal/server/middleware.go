package server

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/cadre-oss/pilot/internal/telemetry"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// requestIDMiddleware honours an incoming X-Request-ID or generates one,
// echoes it, and passes it down in the context.
func requestIDMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id := strings.TrimSpace(string(c.GetHeader(RequestIDHeader)))
		if id == "" {
			id = telemetry.NewRequestID()
		}
		c.Header(RequestIDHeader, id)
		c.Next(telemetry.WithRequestID(ctx, id))
	}
}

// corsMiddleware adds CORS headers for allowed origins. "*" allows any
// origin; the origin is echoed so credentials keep working.
func corsMiddleware(allowOrigins []string) app.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(ctx context.Context, c *app.RequestContext) {
		origin := string(c.GetHeader("Origin"))
		if origin != "" && (allowAll || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
			c.Header("Access-Control-Expose-Headers", RequestIDHeader)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		if string(c.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}

func handlePreflight(ctx context.Context, c *app.RequestContext) {
	c.Status(consts.StatusNoContent)
}

// accessLog logs one line per request at debug level.
func (s *Server) accessLog() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)

		id, _ := telemetry.RequestIDFromContext(ctx)
		if id == "" {
			id = string(c.Response.Header.Peek(RequestIDHeader))
		}
		s.logger.Debug("HTTP request",
			"method", string(c.Method()),
			"path", string(c.Path()),
			"status", c.Response.StatusCode(),
			"duration", time.Since(start),
			"request_id", id,
		)
	}
}

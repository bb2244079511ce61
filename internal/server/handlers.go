package server

import (
	"bytes"
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/cadre-oss/pilot/internal/telemetry"
)

func jsonResponse(c *app.RequestContext, status int, data interface{}) {
	c.JSON(status, data)
}

func jsonError(c *app.RequestContext, status int, msg string) {
	jsonResponse(c, status, map[string]string{"error": msg})
}

// --- Health ---

func (s *Server) handleHealth(ctx context.Context, c *app.RequestContext) {
	a := s.runtime.Agent()
	jsonResponse(c, consts.StatusOK, map[string]string{
		"status":   "ok",
		"agent":    a.Name(),
		"agent_id": a.ID(),
		"provider": s.runtime.ProviderName(),
	})
}

// --- History ---

func (s *Server) handleHistory(ctx context.Context, c *app.RequestContext) {
	jsonResponse(c, consts.StatusOK, s.runtime.History())
}

// --- Metrics ---

func (s *Server) handleMetrics(ctx context.Context, c *app.RequestContext) {
	var buf bytes.Buffer
	if err := s.metrics.WritePrometheus(&buf); err != nil {
		s.logger.Error("Failed to render metrics", "error", err)
		jsonError(c, consts.StatusInternalServerError, "failed to render metrics")
		return
	}
	c.Data(consts.StatusOK, telemetry.ContentType(), buf.Bytes())
}

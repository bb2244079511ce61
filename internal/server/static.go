package server

import (
	"context"
	"path/filepath"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
)

// setupStatic serves <frontend_dir>/index.html at "/" and the rest of the
// directory under /frontend/.
func (s *Server) setupStatic(h *server.Hertz) {
	dir := s.cfg.FrontendDir
	if dir == "" {
		dir = "frontend"
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	index := filepath.Join(dir, "index.html")
	h.GET("/", func(ctx context.Context, c *app.RequestContext) {
		c.File(index)
	})
	h.StaticFS("/frontend", &app.FS{
		Root:        dir,
		PathRewrite: app.NewPathSlashesStripper(1),
	})
}

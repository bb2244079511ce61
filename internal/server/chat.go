package server

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Agent string `json:"agent"`
	Reply string `json:"reply"`
}

// handleChat answers one turn. Provider trouble never changes the status:
// the agent always produces a reply string. Only an unreadable body is a 400.
func (s *Server) handleChat(ctx context.Context, c *app.RequestContext) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		jsonError(c, consts.StatusBadRequest, "request body must be JSON of the form {\"message\": string}")
		return
	}

	reply := s.runtime.Respond(ctx, req.Message)
	jsonResponse(c, consts.StatusOK, chatResponse{
		Agent: s.runtime.Agent().Name(),
		Reply: reply,
	})
}

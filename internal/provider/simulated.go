package provider

import (
	"context"
	"strings"
)

// Canned replies of the simulated provider.
const (
	SimulatedRefundReply  = "I understand your concern. Let me check your order details and refund policy."
	SimulatedGenericReply = "Thanks for reaching out. Could you please provide more details so I can assist you better?"
)

// Simulated answers without any network call. It backs the development mode
// selected by the placeholder credential "dev".
type Simulated struct{}

// NewSimulated returns the offline provider.
func NewSimulated() *Simulated { return &Simulated{} }

func (s *Simulated) Name() string { return "simulated" }

// Complete keys its reply off the newest user message.
func (s *Simulated) Complete(_ context.Context, req *CompletionRequest) (*Response, error) {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			last = req.Messages[i].Content
			break
		}
	}

	reply := SimulatedGenericReply
	if strings.Contains(strings.ToLower(last), "refund") {
		reply = SimulatedRefundReply
	}
	return &Response{Content: reply, StopReason: "end_turn"}, nil
}

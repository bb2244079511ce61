package agent

import "github.com/cadre-oss/pilot/internal/provider"

// BuildMessages assembles one completion request: the system instructions,
// then a user/assistant pair per exchange in window (oldest first), then
// userMessage last.
func BuildMessages(system string, window []Exchange, userMessage string) []provider.Message {
	msgs := make([]provider.Message, 0, 2+2*len(window))
	msgs = append(msgs, provider.Message{Role: provider.RoleSystem, Content: system})
	for _, ex := range window {
		msgs = append(msgs,
			provider.Message{Role: provider.RoleUser, Content: ex.User},
			provider.Message{Role: provider.RoleAssistant, Content: ex.Reply},
		)
	}
	return append(msgs, provider.Message{Role: provider.RoleUser, Content: userMessage})
}

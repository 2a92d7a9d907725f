package history

import (
	"fmt"
	"strings"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/entity"
)

// DefaultWindow is how many past turns are handed to prompt construction.
const DefaultWindow = 5

// Window returns the most recent limit turns in their original order.
// The result never aliases the input slice.
func Window(turns []entity.ConversationTurn, limit int) []entity.ConversationTurn {
	if limit <= 0 || len(turns) == 0 {
		return []entity.ConversationTurn{}
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]entity.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// NormalizeRole maps widget and provider role names onto user/assistant.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case constant.ChatMessageRoleAssistant, constant.ChatMessageRoleAI, constant.ChatMessageRoleModel:
		return constant.ChatMessageRoleAssistant
	case constant.ChatMessageRoleSystem:
		return constant.ChatMessageRoleSystem
	default:
		return constant.ChatMessageRoleUser
	}
}

// Format renders turns as "role: content" lines for prompts.
func Format(turns []entity.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", NormalizeRole(t.Role), t.Content))
	}
	return strings.Join(lines, "\n")
}

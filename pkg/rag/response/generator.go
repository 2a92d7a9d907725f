package response

import (
	"context"
	"strings"

	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/pkg/llm"
	"resume-assistant-be/pkg/rag/intent"
	"resume-assistant-be/pkg/rag/prompt"
)

const maxReplyTokens = 512

// Generator phrases replies with an LLM. The keyword resolution always
// decides the category; the LLM only supplies the wording.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Enabled reports whether an LLM backend is configured.
func (g *Generator) Enabled() bool {
	return g != nil && g.llmProvider != nil
}

// Generate returns the LLM reply for res, or the rule reply when the backend
// is missing or fails. The second return is true when the LLM answered.
// profile may be nil for an anonymous chat.
func (g *Generator) Generate(
	ctx context.Context,
	profile *entity.CandidateProfile,
	question string,
	res *intent.Resolution,
) (string, bool) {
	if !g.Enabled() {
		return res.Reply, false
	}

	promptText := buildPrompt(profile, question, res.History)

	reply, err := g.llmProvider.Generate(ctx, promptText, llm.WithMaxTokens(maxReplyTokens))
	if err != nil {
		g.logger.Warn("RESPONDER", "LLM generation failed, using rule reply", map[string]interface{}{
			"provider": g.llmProvider.Name(),
			"category": res.Category,
			"error":    err.Error(),
		})
		return res.Reply, false
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return res.Reply, false
	}

	g.logger.Debug("RESPONDER", "LLM reply generated", map[string]interface{}{
		"provider":      g.llmProvider.Name(),
		"category":      res.Category,
		"history_turns": len(res.History),
	})
	return reply, true
}

func buildPrompt(profile *entity.CandidateProfile, question string, turns []entity.ConversationTurn) string {
	if profile == nil {
		return prompt.NewCandidateBuilder("", nil, turns, question).Build()
	}
	return prompt.NewCandidateBuilder(profile.CandidateName, profile.Facts, turns, question).
		WithProjects(profile.Projects).
		WithGithub(profile.Github).
		Build()
}

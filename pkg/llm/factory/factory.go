package factory

import (
	"context"
	"fmt"
	"strings"

	"resume-assistant-be/pkg/llm"
	"resume-assistant-be/pkg/llm/gemini"
	"resume-assistant-be/pkg/llm/ollama"
	"resume-assistant-be/pkg/llm/openai"
)

const (
	ResponderRules  = "rules"
	ResponderOllama = "ollama"
	ResponderGemini = "gemini"
	ResponderGroq   = "groq"
	ResponderXAI    = "xai"
)

type Settings struct {
	// Responders is the ordered fallback chain. When empty, Responder alone is used.
	Responders []string
	Responder  string

	OllamaBaseURL string
	OllamaModel   string
	GeminiAPIKey  string
	GeminiModel   string
	GroqAPIKey    string
	GroqModel     string
	XAIAPIKey     string
	XAIModel      string
}

// NewLLMProvider returns nil, nil when only the rules responder is configured:
// replies then come straight from the keyword table. Several responders are
// chained in order, and "rules" entries are skipped since the keyword reply is
// always the last resort.
func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	names := s.Responders
	if len(names) == 0 {
		names = []string{s.Responder}
	}

	seen := make(map[string]bool)
	var providers []llm.LLMProvider
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || name == ResponderRules || seen[name] {
			continue
		}
		seen[name] = true

		p, err := newProvider(ctx, name, s)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	switch len(providers) {
	case 0:
		return nil, nil
	case 1:
		return providers[0], nil
	default:
		return llm.NewFallbackProvider(providers...), nil
	}
}

func newProvider(ctx context.Context, name string, s Settings) (llm.LLMProvider, error) {
	switch name {
	case ResponderOllama:
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.OllamaModel), nil
	case ResponderGemini:
		return gemini.NewGeminiProvider(ctx, s.GeminiAPIKey, s.GeminiModel)
	case ResponderGroq:
		return openai.NewGroqProvider(s.GroqAPIKey, s.GroqModel)
	case ResponderXAI:
		return openai.NewXAIProvider(s.XAIAPIKey, s.XAIModel)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}
}

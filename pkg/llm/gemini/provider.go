package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/pkg/llm"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

// splitHistory pulls system turns into the system instruction and maps the
// rest onto Gemini's user/model roles.
func splitHistory(history []llm.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case constant.ChatMessageRoleSystem:
			system = append(system, msg.Content)
		case constant.ChatMessageRoleAssistant, constant.ChatMessageRoleAI, constant.ChatMessageRoleModel:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resolved := llm.Apply(opts...)

	model := g.modelName
	if resolved.Model != "" {
		model = resolved.Model
	}

	system, contents := splitHistory(history)
	if len(contents) == 0 {
		return "", errors.New("gemini: no user content to send")
	}

	temp := float32(resolved.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if resolved.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(resolved.MaxTokens)
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, opts...)
}

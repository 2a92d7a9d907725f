package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/pkg/llm"
)

// Hosted backends that speak the OpenAI chat completions protocol.
const (
	GroqBaseURL = "https://api.groq.com/openai/v1"
	XAIBaseURL  = "https://api.x.ai/v1"

	DefaultGroqModel = "llama-3.1-8b-instant"
	DefaultXAIModel  = "grok-4-1-fast-reasoning"
)

// CompatibleProvider talks to any /chat/completions endpoint.
type CompatibleProvider struct {
	ProviderName string
	BaseURL      string
	APIKey       string
	ModelName    string
	Client       *http.Client
}

var _ llm.LLMProvider = &CompatibleProvider{}

func NewCompatibleProvider(name, baseURL, apiKey, modelName string) (*CompatibleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: API key is required", name)
	}
	return &CompatibleProvider{
		ProviderName: name,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		ModelName:    modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

func NewGroqProvider(apiKey, modelName string) (*CompatibleProvider, error) {
	if modelName == "" {
		modelName = DefaultGroqModel
	}
	return NewCompatibleProvider("groq", GroqBaseURL, apiKey, modelName)
}

func NewXAIProvider(apiKey, modelName string) (*CompatibleProvider, error) {
	if modelName == "" {
		modelName = DefaultXAIModel
	}
	return NewCompatibleProvider("xai", XAIBaseURL, apiKey, modelName)
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *CompatibleProvider) Name() string {
	return p.ProviderName
}

func (p *CompatibleProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resolved := llm.Apply(opts...)

	messages := make([]message, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == constant.ChatMessageRoleModel || role == constant.ChatMessageRoleAI {
			role = constant.ChatMessageRoleAssistant
		}
		messages[i] = message{Role: role, Content: msg.Content}
	}

	model := p.ModelName
	if resolved.Model != "" {
		model = resolved.Model
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: resolved.Temperature,
		MaxTokens:   resolved.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", p.ProviderName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("%s error: status %d: %s", p.ProviderName, resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("%s error: status %d", p.ProviderName, resp.StatusCode)
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", llm.ErrEmptyCompletion
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyCompletion
	}
	return content, nil
}

func (p *CompatibleProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, opts...)
}

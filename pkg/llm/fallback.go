package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FallbackProvider asks each backend in order and returns the first non-empty
// answer. It fails only when every backend failed.
type FallbackProvider struct {
	providers []LLMProvider
}

var _ LLMProvider = &FallbackProvider{}

func NewFallbackProvider(providers ...LLMProvider) *FallbackProvider {
	return &FallbackProvider{providers: append([]LLMProvider(nil), providers...)}
}

func (f *FallbackProvider) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ">")
}

// Providers returns the chain in the order it is tried.
func (f *FallbackProvider) Providers() []LLMProvider {
	return append([]LLMProvider(nil), f.providers...)
}

func (f *FallbackProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	return f.try(ctx, func(p LLMProvider) (string, error) {
		return p.Chat(ctx, history, opts...)
	})
}

func (f *FallbackProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f.try(ctx, func(p LLMProvider) (string, error) {
		return p.Generate(ctx, prompt, opts...)
	})
}

func (f *FallbackProvider) try(ctx context.Context, call func(LLMProvider) (string, error)) (string, error) {
	if len(f.providers) == 0 {
		return "", errors.New("llm: no providers configured")
	}

	var errs []error
	for _, p := range f.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		out, err := call(p)
		if err == nil && strings.TrimSpace(out) == "" {
			err = ErrEmptyCompletion
		}
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return "", errors.Join(errs...)
}

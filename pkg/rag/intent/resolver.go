package intent

import (
	"strings"

	"resume-assistant-be/internal/entity"
	"resume-assistant-be/pkg/rag/history"
)

// Resolution is the outcome of classifying one chat message.
type Resolution struct {
	Category  string
	Reply     string
	Citations []string

	// History is the bounded window handed to prompt construction.
	// Classification never reads it.
	History []entity.ConversationTurn
}

// Resolver performs ordered, case-insensitive substring matching.
// It is pure: the same message always yields the same category.
type Resolver struct {
	rules    []Rule
	fallback Rule
	window   int
}

// NewResolver creates a resolver over the default rule table.
func NewResolver() *Resolver {
	return NewResolverWithRules(DefaultRules(), FallbackRule(), history.DefaultWindow)
}

// NewResolverWithRules creates a resolver over a custom ordered table.
func NewResolverWithRules(rules []Rule, fallback Rule, window int) *Resolver {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Resolver{
		rules:    copied,
		fallback: fallback,
		window:   window,
	}
}

// Classify returns the first rule whose triggers occur in message, or the fallback.
func (r *Resolver) Classify(message string) Rule {
	lower := strings.ToLower(message)
	for _, rule := range r.rules {
		if rule.Matches(lower) {
			return rule
		}
	}
	return r.fallback
}

// Resolve classifies message and attaches the truncated history window.
func (r *Resolver) Resolve(message string, turns []entity.ConversationTurn) *Resolution {
	rule := r.Classify(message)
	return &Resolution{
		Category:  rule.Category,
		Reply:     rule.Reply,
		Citations: []string{rule.Citation()},
		History:   history.Window(turns, r.window),
	}
}

// Rules returns a copy of the evaluation order.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

package intent

import "strings"

// Category constants double as citation tags.
const (
	CategorySkills       = "Skills"
	CategoryProjects     = "Projects"
	CategoryExperience   = "Experience"
	CategoryContact      = "Contact"
	CategoryAIExperience = "AI Experience"
	CategoryGeneral      = "General"
)

const (
	ReplySkills       = "I specialize in AI backend development with Python, FastAPI, and modern AI technologies. My core skills include backend development, AI integration, and building scalable applications."
	ReplyProjects     = "I'm currently working on Resume_see, an AI Developer Portfolio Assistant. I've built various AI-powered applications focusing on intelligent solutions."
	ReplyExperience   = "I'm an AI Backend Developer with experience building intelligent applications and scalable backend systems. I specialize in AI integration and modern web technologies."
	ReplyContact      = "You can connect with me through my portfolio or GitHub profile. As an AI backend developer, I'm always open to discussing AI projects and collaborations."
	ReplyAIExperience = "I have extensive experience with AI integration, working with various AI APIs to build intelligent applications. I specialize in AI-powered backend solutions."
	ReplyGeneral      = "I can help you learn about my skills in AI backend development, my projects like Resume_see, or my experience with modern technologies. What specific aspect would you like to know more about?"
)

// Rule maps a set of trigger substrings onto a canned reply.
type Rule struct {
	Category string
	Triggers []string
	Reply    string
}

// Matches reports whether any trigger occurs in the already lower-cased text.
func (r Rule) Matches(lower string) bool {
	for _, trigger := range r.Triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// Citation is the tag attached to replies produced by this rule.
func (r Rule) Citation() string {
	return r.Category
}

// DefaultRules returns the rule table in evaluation order. The order is part
// of the public contract: "project skill" must resolve to Skills.
func DefaultRules() []Rule {
	return []Rule{
		{Category: CategorySkills, Triggers: []string{"skill", "tech", "stack"}, Reply: ReplySkills},
		{Category: CategoryProjects, Triggers: []string{"project"}, Reply: ReplyProjects},
		{Category: CategoryExperience, Triggers: []string{"experience", "background"}, Reply: ReplyExperience},
		{Category: CategoryContact, Triggers: []string{"contact", "reach"}, Reply: ReplyContact},
		{Category: CategoryAIExperience, Triggers: []string{"ai", "gemini", "groq"}, Reply: ReplyAIExperience},
	}
}

// FallbackRule always applies when nothing in the table matched.
func FallbackRule() Rule {
	return Rule{Category: CategoryGeneral, Reply: ReplyGeneral}
}

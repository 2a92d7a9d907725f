package prompt

import (
	"fmt"
	"strings"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/pkg/rag/history"
)

// CandidateBuilder renders the single-prompt form used by LLM-backed replies.
type CandidateBuilder struct {
	candidateName string
	facts         *entity.ResumeFacts
	projects      []entity.Project
	github        *entity.GithubProfile
	history       []entity.ConversationTurn
	question      string
}

// NewCandidateBuilder expects turns already truncated to the history window.
func NewCandidateBuilder(candidateName string, facts *entity.ResumeFacts, turns []entity.ConversationTurn, question string) *CandidateBuilder {
	if candidateName == "" {
		candidateName = constant.DefaultCandidateName
	}
	return &CandidateBuilder{
		candidateName: candidateName,
		facts:         facts,
		history:       turns,
		question:      question,
	}
}

// WithProjects adds the projects the candidate registered by hand.
func (b *CandidateBuilder) WithProjects(projects []entity.Project) *CandidateBuilder {
	b.projects = projects
	return b
}

// WithGithub adds the candidate's fetched repositories and README excerpts.
func (b *CandidateBuilder) WithGithub(profile *entity.GithubProfile) *CandidateBuilder {
	b.github = profile
	return b
}

func (b *CandidateBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString(constant.ResponderSystemPrompt)
	prompt.WriteString("\n\n")

	b.writeContext(&prompt)
	b.writeProjects(&prompt)
	b.writeGithub(&prompt)
	b.writeHistory(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *CandidateBuilder) writeContext(prompt *strings.Builder) {
	fmt.Fprintf(prompt, "Context about %s:\n", b.candidateName)

	if b.facts.IsEmpty() {
		prompt.WriteString(constant.ResponderNoContext)
		prompt.WriteString("\n\n")
		return
	}

	f := b.facts
	writeLine(prompt, "Name", f.Name)
	writeLine(prompt, "Headline", f.Headline)
	writeLine(prompt, "Email", f.Email)
	writeLine(prompt, "Phone", f.Phone)
	writeLine(prompt, "Summary", f.Summary)
	writeList(prompt, "Skills", f.Skills)
	writeList(prompt, "Experience", f.Experience)
	writeList(prompt, "Projects", f.Projects)
	if f.RawText != "" && f.Summary == "" && len(f.Skills) == 0 {
		prompt.WriteString("Resume text:\n")
		prompt.WriteString(f.RawText)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\n")
}

func (b *CandidateBuilder) writeProjects(prompt *strings.Builder) {
	if len(b.projects) == 0 {
		return
	}

	prompt.WriteString("Candidate Projects:\n")
	for _, p := range b.projects {
		fmt.Fprintf(prompt, "- %s", p.Name)
		if len(p.Technologies) > 0 {
			fmt.Fprintf(prompt, " (%s)", strings.Join(p.Technologies, ", "))
		}
		if p.Description != "" {
			fmt.Fprintf(prompt, ": %s", p.Description)
		}
		prompt.WriteString("\n")
		if p.Url != "" {
			fmt.Fprintf(prompt, "  Link: %s\n", p.Url)
		}
	}
	prompt.WriteString("\n")
}

func (b *CandidateBuilder) writeGithub(prompt *strings.Builder) {
	if b.github == nil || len(b.github.Repositories) == 0 {
		return
	}

	fmt.Fprintf(prompt, "Candidate GitHub (%s):\n", b.github.Username)
	for _, r := range b.github.Repositories {
		fmt.Fprintf(prompt, "- %s", r.Name)
		if r.Language != "" {
			fmt.Fprintf(prompt, " [%s]", r.Language)
		}
		fmt.Fprintf(prompt, " stars=%d forks=%d\n", r.Stars, r.Forks)
		if r.Description != "" {
			fmt.Fprintf(prompt, "  Description: %s\n", r.Description)
		}
		if r.Readme != "" && r.Readme != r.Description {
			fmt.Fprintf(prompt, "  README: %s\n", strings.Join(strings.Fields(r.Readme), " "))
		}
	}
	prompt.WriteString("\n")
}

func (b *CandidateBuilder) writeHistory(prompt *strings.Builder) {
	prompt.WriteString("Conversation History:\n")
	if len(b.history) > 0 {
		prompt.WriteString(history.Format(b.history))
	}
	prompt.WriteString("\n\n")
}

func (b *CandidateBuilder) writeQuestion(prompt *strings.Builder) {
	fmt.Fprintf(prompt, "Question: %s\n\nAnswer:", b.question)
}

func writeLine(prompt *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(prompt, "%s: %s\n", label, value)
}

func writeList(prompt *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(prompt, "%s:\n", label)
	for _, v := range values {
		fmt.Fprintf(prompt, "- %s\n", v)
	}
}

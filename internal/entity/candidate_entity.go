package entity

import (
	"time"

	"github.com/google/uuid"
)

// CandidateSession is the identity a chat is bound to after a successful upload.
type CandidateSession struct {
	CandidateId   string
	CandidateName string
	CreatedAt     time.Time
}

type ConversationTurn struct {
	Role    string
	Content string
}

type CandidateStatus string

const (
	CandidateStatusPending CandidateStatus = "pending"
	CandidateStatusParsed  CandidateStatus = "parsed"
	CandidateStatusFailed  CandidateStatus = "failed"
)

// CandidateProfile is the registry record kept for every uploaded resume.
type CandidateProfile struct {
	Id            string
	FileName      string
	CandidateName string
	Status        CandidateStatus
	Facts         *ResumeFacts
	FailureReason string
	Github        *GithubProfile
	Projects      []Project
	UploadedAt    time.Time
	UpdatedAt     *time.Time
}

// Session returns the chat identity derived from the profile.
func (p *CandidateProfile) Session() CandidateSession {
	return CandidateSession{
		CandidateId:   p.Id,
		CandidateName: p.CandidateName,
		CreatedAt:     p.UploadedAt,
	}
}

// ResumeFacts holds what the extraction service could read out of a resume.
type ResumeFacts struct {
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Headline   string   `json:"headline,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience []string `json:"experience,omitempty"`
	Projects   []string `json:"projects,omitempty"`
	RawText    string   `json:"raw_text,omitempty"`
}

func (f *ResumeFacts) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Name == "" && f.Email == "" && f.Phone == "" && f.Headline == "" && f.Summary == "" &&
		len(f.Skills) == 0 && len(f.Experience) == 0 && len(f.Projects) == 0 && f.RawText == ""
}

// GithubProfile is the latest snapshot of a candidate's public repositories.
type GithubProfile struct {
	Username     string             `json:"username"`
	Repositories []GithubRepository `json:"repositories"`
	FetchedAt    time.Time          `json:"fetched_at"`
}

type GithubRepository struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Language    string     `json:"language,omitempty"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	HtmlUrl     string     `json:"html_url,omitempty"`
	Readme      string     `json:"readme,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Project is a portfolio entry added by hand for a candidate.
type Project struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Technologies []string  `json:"technologies,omitempty"`
	Url          string    `json:"url,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

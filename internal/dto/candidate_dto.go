package dto

import (
	"time"

	"resume-assistant-be/internal/entity"

	"github.com/google/uuid"
)

type CandidateResponse struct {
	Id            string                 `json:"id"`
	FileName      string                 `json:"file_name"`
	CandidateName string                 `json:"candidate_name"`
	Status        string                 `json:"status"`
	Facts         *entity.ResumeFacts    `json:"facts,omitempty"`
	FailureReason string                 `json:"failure_reason,omitempty"`
	Github        *GithubProfileResponse `json:"github,omitempty"`
	Projects      []*ProjectResponse     `json:"projects"`
	UploadedAt    time.Time              `json:"uploaded_at"`
	UpdatedAt     *time.Time             `json:"updated_at,omitempty"`
}

type GetAllCandidatesResponse struct {
	Candidates []*CandidateResponse `json:"candidates"`
}

type AddProjectRequest struct {
	Name         string   `json:"name" validate:"notblank,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	Technologies []string `json:"technologies" validate:"max=50,dive,notblank"`
	Url          string   `json:"url" validate:"omitempty,url"`
}

type ProjectResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Technologies []string  `json:"technologies,omitempty"`
	Url          string    `json:"url,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

type AddProjectResponse struct {
	Message     string           `json:"message"`
	CandidateId string           `json:"candidate_id"`
	Project     *ProjectResponse `json:"project"`
}

type FetchGithubRequest struct {
	Username string `json:"username" validate:"notblank"`
}

type GithubRepositoryResponse struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Language    string     `json:"language,omitempty"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	HtmlUrl     string     `json:"html_url,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type GithubProfileResponse struct {
	Username     string                      `json:"username"`
	Repositories []*GithubRepositoryResponse `json:"repositories"`
	FetchedAt    time.Time                   `json:"fetched_at"`
}

type FetchGithubResponse struct {
	Message     string    `json:"message"`
	CandidateId string    `json:"candidate_id"`
	Username    string    `json:"username"`
	ReposCount  int       `json:"repos_count"`
	FetchedAt   time.Time `json:"fetched_at"`
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/internal/repository/contract"
	"resume-assistant-be/pkg/events"
	"resume-assistant-be/pkg/github"

	"github.com/google/uuid"
)

type ICandidateService interface {
	GetAll(ctx context.Context) (*dto.GetAllCandidatesResponse, error)
	GetById(ctx context.Context, id string) (*dto.CandidateResponse, error)
	AddProject(ctx context.Context, id string, req *dto.AddProjectRequest) (*dto.AddProjectResponse, error)
	FetchGithub(ctx context.Context, id string, req *dto.FetchGithubRequest) (*dto.FetchGithubResponse, error)
}

type candidateService struct {
	candidateRepository contract.CandidateRepository
	githubFetcher       github.Fetcher
	eventPublisher      events.Publisher
	logger              logger.ILogger
}

func NewCandidateService(
	candidateRepository contract.CandidateRepository,
	githubFetcher github.Fetcher,
	eventPublisher events.Publisher,
	log logger.ILogger,
) ICandidateService {
	return &candidateService{
		candidateRepository: candidateRepository,
		githubFetcher:       githubFetcher,
		eventPublisher:      eventPublisher,
		logger:              log,
	}
}

func (s *candidateService) GetAll(ctx context.Context) (*dto.GetAllCandidatesResponse, error) {
	profiles, err := s.candidateRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CandidateResponse, 0, len(profiles))
	for _, p := range profiles {
		res = append(res, toCandidateResponse(p))
	}
	return &dto.GetAllCandidatesResponse{Candidates: res}, nil
}

func (s *candidateService) GetById(ctx context.Context, id string) (*dto.CandidateResponse, error) {
	profile, err := s.candidateRepository.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &serverutils.NotFoundError{Message: constant.CandidateErrNotFound}
	}
	return toCandidateResponse(profile), nil
}

func (s *candidateService) AddProject(ctx context.Context, id string, req *dto.AddProjectRequest) (*dto.AddProjectResponse, error) {
	if err := requireCandidateId(id); err != nil {
		return nil, err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	project := entity.Project{
		Id:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Technologies: req.Technologies,
		Url:          strings.TrimSpace(req.Url),
		AddedAt:      time.Now(),
	}

	profile, err := s.candidateRepository.Modify(ctx, id, func(p *entity.CandidateProfile) error {
		p.Projects = append(p.Projects, project)
		return nil
	})
	if err != nil {
		return nil, &serverutils.InternalError{Message: constant.ChatErrInternal, Err: err}
	}
	if profile == nil {
		return nil, &serverutils.NotFoundError{Message: constant.CandidateErrNotFound}
	}

	s.logger.Info("CANDIDATE", "Project added", map[string]interface{}{
		"candidate_id": id,
		"project_id":   project.Id.String(),
		"projects":     len(profile.Projects),
	})
	s.publish(ctx, events.ProjectAdded(id, project.Id, project.Name))

	return &dto.AddProjectResponse{
		Message:     constant.ProjectMsgAdded,
		CandidateId: id,
		Project:     toProjectResponse(project),
	}, nil
}

// FetchGithub replaces the candidate's GitHub snapshot with a fresh one.
func (s *candidateService) FetchGithub(ctx context.Context, id string, req *dto.FetchGithubRequest) (*dto.FetchGithubResponse, error) {
	if err := requireCandidateId(id); err != nil {
		return nil, err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	// Check first so an unknown candidate does not cost GitHub rate limit.
	existing, err := s.candidateRepository.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &serverutils.NotFoundError{Message: constant.CandidateErrNotFound}
	}

	username := strings.TrimSpace(req.Username)
	repos, err := s.githubFetcher.FetchRepositories(ctx, username)
	switch {
	case errors.Is(err, github.ErrInvalidUsername):
		return nil, &serverutils.ValidationError{Message: constant.GithubErrInvalidUser}
	case errors.Is(err, github.ErrUserNotFound):
		return nil, &serverutils.NotFoundError{Message: constant.GithubErrUserNotFound}
	case err != nil:
		s.logger.Error("CANDIDATE", "GitHub fetch failed", map[string]interface{}{
			"candidate_id": id,
			"username":     username,
			"error":        err.Error(),
		})
		return nil, &serverutils.InternalError{Message: constant.GithubErrFetchFailed, Err: err}
	}

	snapshot := &entity.GithubProfile{
		Username:     username,
		Repositories: repos,
		FetchedAt:    time.Now(),
	}
	profile, err := s.candidateRepository.Modify(ctx, id, func(p *entity.CandidateProfile) error {
		p.Github = snapshot
		return nil
	})
	if err != nil {
		return nil, &serverutils.InternalError{Message: constant.GithubErrFetchFailed, Err: err}
	}
	if profile == nil {
		return nil, &serverutils.NotFoundError{Message: constant.CandidateErrNotFound}
	}

	s.logger.Info("CANDIDATE", "GitHub repositories stored", map[string]interface{}{
		"candidate_id": id,
		"username":     username,
		"repos_count":  len(repos),
	})
	s.publish(ctx, events.GithubFetched(id, username, len(repos)))

	return &dto.FetchGithubResponse{
		Message:     constant.GithubMsgFetched,
		CandidateId: id,
		Username:    username,
		ReposCount:  len(repos),
		FetchedAt:   snapshot.FetchedAt,
	}, nil
}

func (s *candidateService) publish(ctx context.Context, event events.Event) {
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("CANDIDATE", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func requireCandidateId(id string) error {
	if strings.TrimSpace(id) == "" {
		return &serverutils.ValidationError{Message: constant.CandidateErrIdRequired}
	}
	return nil
}

func toCandidateResponse(p *entity.CandidateProfile) *dto.CandidateResponse {
	projects := make([]*dto.ProjectResponse, 0, len(p.Projects))
	for _, project := range p.Projects {
		projects = append(projects, toProjectResponse(project))
	}

	return &dto.CandidateResponse{
		Id:            p.Id,
		FileName:      p.FileName,
		CandidateName: p.CandidateName,
		Status:        string(p.Status),
		Facts:         p.Facts,
		FailureReason: p.FailureReason,
		Github:        toGithubResponse(p.Github),
		Projects:      projects,
		UploadedAt:    p.UploadedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProjectResponse(p entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		Id:           p.Id,
		Name:         p.Name,
		Description:  p.Description,
		Technologies: p.Technologies,
		Url:          p.Url,
		AddedAt:      p.AddedAt,
	}
}

// toGithubResponse leaves README excerpts out; they only feed the prompt.
func toGithubResponse(g *entity.GithubProfile) *dto.GithubProfileResponse {
	if g == nil {
		return nil
	}
	repos := make([]*dto.GithubRepositoryResponse, 0, len(g.Repositories))
	for _, r := range g.Repositories {
		repos = append(repos, &dto.GithubRepositoryResponse{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.Stars,
			Forks:       r.Forks,
			HtmlUrl:     r.HtmlUrl,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return &dto.GithubProfileResponse{
		Username:     g.Username,
		Repositories: repos,
		FetchedAt:    g.FetchedAt,
	}
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type CandidateRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewCandidateRepository keeps profiles for ttl and purges expired ones every
// ten minutes. A ttl of zero keeps them for the life of the process.
func NewCandidateRepository(ttl time.Duration) contract.CandidateRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &CandidateRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *CandidateRepository) Create(ctx context.Context, profile *entity.CandidateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(profile.Id); found {
		return fmt.Errorf("candidate %s already exists", profile.Id)
	}
	r.cache.Set(profile.Id, clone(profile), cache.DefaultExpiration)
	return nil
}

func (r *CandidateRepository) Update(ctx context.Context, profile *entity.CandidateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(profile.Id); !found {
		return fmt.Errorf("candidate %s not found", profile.Id)
	}
	now := time.Now()
	profile.UpdatedAt = &now
	r.cache.Set(profile.Id, clone(profile), cache.DefaultExpiration)
	return nil
}

func (r *CandidateRepository) Modify(ctx context.Context, id string, fn func(profile *entity.CandidateProfile) error) (*entity.CandidateProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id)
	if !found {
		return nil, nil
	}

	profile := clone(x.(*entity.CandidateProfile))
	if err := fn(profile); err != nil {
		return nil, err
	}
	profile.Id = id
	now := time.Now()
	profile.UpdatedAt = &now
	r.cache.Set(id, clone(profile), cache.DefaultExpiration)
	return profile, nil
}

func (r *CandidateRepository) FindById(ctx context.Context, id string) (*entity.CandidateProfile, error) {
	if x, found := r.cache.Get(id); found {
		return clone(x.(*entity.CandidateProfile)), nil
	}
	return nil, nil
}

func (r *CandidateRepository) FindAll(ctx context.Context) ([]*entity.CandidateProfile, error) {
	items := r.cache.Items()
	profiles := make([]*entity.CandidateProfile, 0, len(items))
	for _, item := range items {
		profiles = append(profiles, clone(item.Object.(*entity.CandidateProfile)))
	}
	sortNewestFirst(profiles)
	return profiles, nil
}

func sortNewestFirst(profiles []*entity.CandidateProfile) {
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].UploadedAt.Equal(profiles[j].UploadedAt) {
			return profiles[i].Id > profiles[j].Id
		}
		return profiles[i].UploadedAt.After(profiles[j].UploadedAt)
	})
}

func clone(p *entity.CandidateProfile) *entity.CandidateProfile {
	out := *p
	if p.Facts != nil {
		facts := *p.Facts
		facts.Skills = append([]string(nil), p.Facts.Skills...)
		facts.Experience = append([]string(nil), p.Facts.Experience...)
		facts.Projects = append([]string(nil), p.Facts.Projects...)
		out.Facts = &facts
	}
	if p.Github != nil {
		github := *p.Github
		github.Repositories = append([]entity.GithubRepository(nil), p.Github.Repositories...)
		out.Github = &github
	}
	if p.Projects != nil {
		out.Projects = make([]entity.Project, len(p.Projects))
		for i, project := range p.Projects {
			project.Technologies = append([]string(nil), project.Technologies...)
			out.Projects[i] = project
		}
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

package mapper

import (
	"encoding/json"
	"time"

	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CandidateMapper struct{}

func NewCandidateMapper() *CandidateMapper {
	return &CandidateMapper{}
}

func (m *CandidateMapper) ToEntity(c *model.CandidateProfile) *entity.CandidateProfile {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var facts *entity.ResumeFacts
	if hasJSON(c.Facts) {
		facts = &entity.ResumeFacts{}
		if err := json.Unmarshal(c.Facts, facts); err != nil {
			facts = nil
		}
	}

	var github *entity.GithubProfile
	if hasJSON(c.Github) {
		github = &entity.GithubProfile{}
		if err := json.Unmarshal(c.Github, github); err != nil {
			github = nil
		}
	}

	var projects []entity.Project
	if hasJSON(c.Projects) {
		if err := json.Unmarshal(c.Projects, &projects); err != nil {
			projects = nil
		}
	}

	return &entity.CandidateProfile{
		Id:            c.Id,
		FileName:      c.FileName,
		CandidateName: c.CandidateName,
		Status:        entity.CandidateStatus(c.Status),
		Facts:         facts,
		FailureReason: c.FailureReason,
		Github:        github,
		Projects:      projects,
		UploadedAt:    c.UploadedAt,
		UpdatedAt:     updatedAt,
	}
}

// ToModel keeps storageKey stable across updates; pass uuid.Nil to mint one.
func (m *CandidateMapper) ToModel(c *entity.CandidateProfile, storageKey uuid.UUID) *model.CandidateProfile {
	if c == nil {
		return nil
	}
	if storageKey == uuid.Nil {
		storageKey = uuid.New()
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var facts, github, projects datatypes.JSON
	if c.Facts != nil {
		facts = toJSON(c.Facts)
	}
	if c.Github != nil {
		github = toJSON(c.Github)
	}
	if len(c.Projects) > 0 {
		projects = toJSON(c.Projects)
	}

	return &model.CandidateProfile{
		Id:            c.Id,
		FileName:      c.FileName,
		StorageKey:    storageKey,
		CandidateName: c.CandidateName,
		Status:        string(c.Status),
		Facts:         facts,
		FailureReason: c.FailureReason,
		Github:        github,
		Projects:      projects,
		UploadedAt:    c.UploadedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *CandidateMapper) ToEntities(profiles []*model.CandidateProfile) []*entity.CandidateProfile {
	entities := make([]*entity.CandidateProfile, len(profiles))
	for i, p := range profiles {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func hasJSON(raw datatypes.JSON) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func toJSON(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

package contract

import (
	"context"

	"resume-assistant-be/internal/entity"
)

// CandidateRepository stores uploaded candidate profiles. FindById returns
// nil, nil when the candidate does not exist.
type CandidateRepository interface {
	Create(ctx context.Context, profile *entity.CandidateProfile) error
	Update(ctx context.Context, profile *entity.CandidateProfile) error
	FindById(ctx context.Context, id string) (*entity.CandidateProfile, error)
	FindAll(ctx context.Context) ([]*entity.CandidateProfile, error) // newest first

	// Modify applies fn to the stored profile and saves the result as one
	// atomic read-modify-write. It returns nil, nil when the candidate does not
	// exist, and saves nothing when fn returns an error.
	Modify(ctx context.Context, id string, fn func(profile *entity.CandidateProfile) error) (*entity.CandidateProfile, error)
}

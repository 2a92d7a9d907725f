package implementation

import (
	"context"
	"errors"

	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/mapper"
	"resume-assistant-be/internal/model"
	"resume-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CandidateMapper
}

func NewCandidateRepository(db *gorm.DB) contract.CandidateRepository {
	return &CandidateRepositoryImpl{
		db:     db,
		mapper: mapper.NewCandidateMapper(),
	}
}

func (r *CandidateRepositoryImpl) Create(ctx context.Context, profile *entity.CandidateProfile) error {
	m := r.mapper.ToModel(profile, uuid.Nil)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *CandidateRepositoryImpl) Update(ctx context.Context, profile *entity.CandidateProfile) error {
	var existing model.CandidateProfile
	if err := r.db.WithContext(ctx).Select("storage_key").Where("id = ?", profile.Id).First(&existing).Error; err != nil {
		return err
	}

	m := r.mapper.ToModel(profile, existing.StorageKey)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

// Modify locks the row for the duration of fn.
func (r *CandidateRepositoryImpl) Modify(ctx context.Context, id string, fn func(profile *entity.CandidateProfile) error) (*entity.CandidateProfile, error) {
	var result *entity.CandidateProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.CandidateProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		profile := r.mapper.ToEntity(&m)
		if err := fn(profile); err != nil {
			return err
		}
		profile.Id = id

		updated := r.mapper.ToModel(profile, m.StorageKey)
		if err := tx.Save(updated).Error; err != nil {
			return err
		}
		result = r.mapper.ToEntity(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *CandidateRepositoryImpl) FindById(ctx context.Context, id string) (*entity.CandidateProfile, error) {
	var m model.CandidateProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CandidateRepositoryImpl) FindAll(ctx context.Context) ([]*entity.CandidateProfile, error) {
	var models []*model.CandidateProfile
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

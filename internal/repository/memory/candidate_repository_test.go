package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"resume-assistant-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(id string, uploadedAt time.Time) *entity.CandidateProfile {
	return &entity.CandidateProfile{
		Id:            id,
		FileName:      "cv.pdf",
		CandidateName: "Candidate",
		Status:        entity.CandidateStatusPending,
		UploadedAt:    uploadedAt,
	}
}

func TestCandidateRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(time.Hour)

	require.NoError(t, repo.Create(ctx, newProfile("candidate_1_aaaaaaaaa", time.Now())))
	assert.Error(t, repo.Create(ctx, newProfile("candidate_1_aaaaaaaaa", time.Now())))

	found, err := repo.FindById(ctx, "candidate_1_aaaaaaaaa")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.CandidateStatusPending, found.Status)

	missing, err := repo.FindById(ctx, "candidate_2_bbbbbbbbb")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCandidateRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(0)

	profile := newProfile("candidate_1_aaaaaaaaa", time.Now())
	require.NoError(t, repo.Create(ctx, profile))

	profile.Status = entity.CandidateStatusParsed
	profile.Facts = &entity.ResumeFacts{Name: "Ada", Skills: []string{"Go"}}
	require.NoError(t, repo.Update(ctx, profile))
	assert.NotNil(t, profile.UpdatedAt)

	// mutations after Update must not leak into the store
	profile.Facts.Skills[0] = "Rust"

	found, err := repo.FindById(ctx, profile.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.CandidateStatusParsed, found.Status)
	assert.Equal(t, []string{"Go"}, found.Facts.Skills)

	assert.Error(t, repo.Update(ctx, newProfile("candidate_9_zzzzzzzzz", time.Now())))
}

func TestCandidateRepositoryFindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(time.Hour)
	base := time.Now()

	require.NoError(t, repo.Create(ctx, newProfile("candidate_1_old", base.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newProfile("candidate_3_new", base)))
	require.NoError(t, repo.Create(ctx, newProfile("candidate_2_mid", base.Add(-time.Minute))))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "candidate_3_new", all[0].Id)
	assert.Equal(t, "candidate_2_mid", all[1].Id)
	assert.Equal(t, "candidate_1_old", all[2].Id)
}

func TestCandidateRepositoryModifyIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(time.Hour)
	require.NoError(t, repo.Create(ctx, newProfile("candidate_1_aaaaaaaaa", time.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Modify(ctx, "candidate_1_aaaaaaaaa", func(p *entity.CandidateProfile) error {
				p.Projects = append(p.Projects, entity.Project{Name: fmt.Sprintf("project-%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	found, err := repo.FindById(ctx, "candidate_1_aaaaaaaaa")
	require.NoError(t, err)
	assert.Len(t, found.Projects, 20)
	assert.NotNil(t, found.UpdatedAt)
}

func TestCandidateRepositoryModifyMissingAndAborted(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(time.Hour)

	missing, err := repo.Modify(ctx, "candidate_9_zzzzzzzzz", func(*entity.CandidateProfile) error { return nil })
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Create(ctx, newProfile("candidate_1_aaaaaaaaa", time.Now())))
	_, err = repo.Modify(ctx, "candidate_1_aaaaaaaaa", func(p *entity.CandidateProfile) error {
		p.Status = entity.CandidateStatusFailed
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	found, err := repo.FindById(ctx, "candidate_1_aaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, entity.CandidateStatusPending, found.Status)
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "candidate:profile:"
	indexKey         = "candidate:index"

	// maxModifyAttempts bounds optimistic retries when another writer races us.
	maxModifyAttempts = 5
)

// CandidateRepository keeps profiles in Redis so several API replicas share
// one registry. Profiles are JSON strings; a sorted set scored by upload time
// keeps the listing order.
type CandidateRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCandidateRepository(rdb *redis.Client, ttl time.Duration) contract.CandidateRepository {
	return &CandidateRepository{rdb: rdb, ttl: ttl}
}

func profileKey(id string) string {
	return profileKeyPrefix + id
}

func (r *CandidateRepository) Create(ctx context.Context, profile *entity.CandidateProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	ok, err := r.rdb.SetNX(ctx, profileKey(profile.Id), payload, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("candidate %s already exists", profile.Id)
	}

	return r.rdb.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(profile.UploadedAt.UnixMilli()),
		Member: profile.Id,
	}).Err()
}

func (r *CandidateRepository) Update(ctx context.Context, profile *entity.CandidateProfile) error {
	now := time.Now()
	profile.UpdatedAt = &now

	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	ok, err := r.rdb.SetXX(ctx, profileKey(profile.Id), payload, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("candidate %s not found", profile.Id)
	}
	return nil
}

// Modify watches the profile key so a concurrent writer aborts the
// transaction, then retries on the fresh value.
func (r *CandidateRepository) Modify(ctx context.Context, id string, fn func(profile *entity.CandidateProfile) error) (*entity.CandidateProfile, error) {
	key := profileKey(id)

	for attempt := 0; attempt < maxModifyAttempts; attempt++ {
		var result *entity.CandidateProfile

		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return nil
				}
				return err
			}

			var profile entity.CandidateProfile
			if err := json.Unmarshal(raw, &profile); err != nil {
				return err
			}
			if err := fn(&profile); err != nil {
				return err
			}
			profile.Id = id
			now := time.Now()
			profile.UpdatedAt = &now

			payload, err := json.Marshal(&profile)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, r.ttl)
				return nil
			})
			if err == nil {
				result = &profile
			}
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, fmt.Errorf("candidate %s: too many concurrent updates", id)
}

func (r *CandidateRepository) FindById(ctx context.Context, id string) (*entity.CandidateProfile, error) {
	raw, err := r.rdb.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var profile entity.CandidateProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CandidateRepository) FindAll(ctx context.Context) ([]*entity.CandidateProfile, error) {
	ids, err := r.rdb.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.CandidateProfile{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*entity.CandidateProfile, 0, len(values))
	var expired []interface{}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var profile entity.CandidateProfile
		if err := json.Unmarshal([]byte(s), &profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}

	// Profiles expire on their own; drop their index entries lazily.
	if len(expired) > 0 {
		r.rdb.ZRem(ctx, indexKey, expired...)
	}
	return profiles, nil
}

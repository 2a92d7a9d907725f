package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CandidateProfile struct {
	Id            string         `gorm:"type:varchar(64);primaryKey"`
	FileName      string         `gorm:"type:varchar(255);not null"`
	StorageKey    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	CandidateName string         `gorm:"type:varchar(255);not null"`
	Status        string         `gorm:"type:varchar(20);not null;index"`
	Facts         datatypes.JSON `gorm:"type:jsonb"`
	FailureReason string         `gorm:"type:text"`
	Github        datatypes.JSON `gorm:"type:jsonb"`
	Projects      datatypes.JSON `gorm:"type:jsonb"`
	UploadedAt    time.Time      `gorm:"not null;index"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// ContestApplication is one creator's entry into a contest. Immutable once
// created except for the review status. Creation order feeds the ranking
// tie-break, so created_at carries semantic weight here.
type ContestApplication struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContestID       uuid.UUID               `gorm:"column:contest_id;type:uuid;not null;index"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.ApplicationStatus `gorm:"column:status;type:application_status_enum;not null;default:'pending'"`
	PostURL         string                  `gorm:"column:post_url"`
	MetricsSnapshot json.RawMessage         `gorm:"column:metrics_snapshot;type:jsonb"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

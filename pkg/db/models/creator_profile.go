package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreatorProfile stores the loosely structured creator metrics document.
// Data carries whatever shape the ingestion pipeline produced for that
// creator's vintage; the settlement metric resolver normalizes it.
type CreatorProfile struct {
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	Data      json.RawMessage `gorm:"column:data;type:jsonb"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Notification is a persisted in-app notification. Realtime delivery goes
// through the Pub/Sub sink separately; this row is what the inbox lists.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.NotificationType `gorm:"column:type;type:notification_type_enum;not null"`
	Message   string                 `gorm:"column:message;not null"`
	Metadata  json.RawMessage        `gorm:"column:metadata;type:jsonb"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// User is a marketplace account: a brand running contests or a creator
// submitting content.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;not null;unique"`
	DisplayName  string         `gorm:"column:display_name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:user_role_enum;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

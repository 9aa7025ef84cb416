package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Payout is the durable settlement ledger record for one contest. Written
// once per settlement attempt; only status and updated_at change after
// creation.
type Payout struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContestID   uuid.UUID          `gorm:"column:contest_id;type:uuid;not null;index"`
	BrandUserID uuid.UUID          `gorm:"column:brand_user_id;type:uuid;not null"`
	TotalAmount decimal.Decimal    `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency    string             `gorm:"column:currency;not null;default:'usd'"`
	Status      enums.PayoutStatus `gorm:"column:status;type:payout_status_enum;not null;default:'pending'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	WinnerPayouts []WinnerPayout `gorm:"foreignKey:PayoutID"`
}

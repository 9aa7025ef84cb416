package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// ContestWinner is the brand-visible winner summary denormalized onto the
// contest. The Payout/WinnerPayout rows remain the audit-grade source of
// truth for money movement; payout_status here is a cache updated after
// each transfer attempt.
type ContestWinner struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContestID     uuid.UUID                `gorm:"column:contest_id;type:uuid;not null;index:idx_contest_winners_position,unique,composite:contest_position"`
	ApplicationID uuid.UUID                `gorm:"column:application_id;type:uuid;not null"`
	UserID        uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Position      int                      `gorm:"column:position;not null;index:idx_contest_winners_position,unique,composite:contest_position"`
	PrizeAmount   decimal.Decimal          `gorm:"column:prize_amount;type:numeric(12,2);not null"`
	MetricValue   float64                  `gorm:"column:metric_value;not null;default:0"`
	PayoutStatus  enums.WinnerPayoutStatus `gorm:"column:payout_status;type:winner_payout_status_enum;not null;default:'pending'"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

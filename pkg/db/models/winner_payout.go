package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// WinnerPayout records a single winner's transfer attempt and outcome
// within one settlement.
type WinnerPayout struct {
	ID                   uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PayoutID             uuid.UUID                `gorm:"column:payout_id;type:uuid;not null;index"`
	ContestID            uuid.UUID                `gorm:"column:contest_id;type:uuid;not null;index"`
	UserID               uuid.UUID                `gorm:"column:user_id;type:uuid;not null"`
	Position             int                      `gorm:"column:position;not null"`
	Amount               decimal.Decimal          `gorm:"column:amount;type:numeric(12,2);not null"`
	DestinationAccountID *string                  `gorm:"column:destination_account_id"`
	Status               enums.WinnerPayoutStatus `gorm:"column:status;type:winner_payout_status_enum;not null;default:'pending'"`
	TransferID           *string                  `gorm:"column:transfer_id"`
	ErrorMessage         *string                  `gorm:"column:error_message"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

// Contest is the aggregate root for one brand competition. The prize
// timeline (budget, winner count, positions, criterion, dates) is embedded
// rather than split out because it is written once at creation and read as
// a unit during settlement.
type Contest struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandUserID  uuid.UUID                 `gorm:"column:brand_user_id;type:uuid;not null;index"`
	Title        string                    `gorm:"column:title;not null"`
	Description  string                    `gorm:"column:description"`
	Status       enums.ContestStatus       `gorm:"column:status;type:contest_status_enum;not null;default:'draft'"`
	Criteria     enums.RankingCriterion    `gorm:"column:criteria;type:ranking_criterion_enum;not null;default:'views'"`
	TotalBudget  decimal.Decimal           `gorm:"column:total_budget;type:numeric(12,2);not null"`
	WinnerCount  int                       `gorm:"column:winner_count;not null"`
	Positions    types.PrizePositions      `gorm:"column:positions;type:jsonb"`
	StartDate    *time.Time                `gorm:"column:start_date"`
	EndDate      *time.Time                `gorm:"column:end_date"`
	PayoutStatus enums.ContestPayoutStatus `gorm:"column:payout_status;type:contest_payout_status_enum;not null;default:'none'"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

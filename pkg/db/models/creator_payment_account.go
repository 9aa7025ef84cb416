package models

import (
	"time"

	"github.com/google/uuid"
)

// CreatorPaymentAccount links a creator to their connected Stripe account.
// A winner without a row here, or with payouts disabled, has no payable
// destination.
type CreatorPaymentAccount struct {
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	StripeAccountID string    `gorm:"column:stripe_account_id;not null;unique"`
	PayoutsEnabled  bool      `gorm:"column:payouts_enabled;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

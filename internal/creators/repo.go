package creators

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
)

// Repository exposes persistence helpers for creator profiles and payment
// accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertProfile(ctx context.Context, profile *models.CreatorProfile) error
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error)
	UpsertPaymentAccount(ctx context.Context, account *models.CreatorPaymentAccount) error
	FindPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error)
	SetPayoutsEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a creators repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UpsertProfile(ctx context.Context, profile *models.CreatorProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(profile).Error
}

func (r *repository) FindProfile(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) UpsertPaymentAccount(ctx context.Context, account *models.CreatorPaymentAccount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stripe_account_id", "payouts_enabled", "updated_at"}),
		}).
		Create(account).Error
}

func (r *repository) FindPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error) {
	var account models.CreatorPaymentAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) SetPayoutsEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CreatorPaymentAccount{}).
		Where("user_id = ?", userID).
		Update("payouts_enabled", enabled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

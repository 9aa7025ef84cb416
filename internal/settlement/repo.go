package settlement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settlement repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindContest(ctx context.Context, contestID uuid.UUID) (*models.Contest, error) {
	var contest models.Contest
	err := r.db.WithContext(ctx).
		Where("id = ?", contestID).
		First(&contest).Error
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *repository) ListApprovedApplications(ctx context.Context, contestID uuid.UUID) ([]models.ContestApplication, error) {
	var applications []models.ContestApplication
	err := r.db.WithContext(ctx).
		Where("contest_id = ? AND status = ?", contestID, enums.ApplicationStatusApproved).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) FindCreatorProfiles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.CreatorProfile, error) {
	result := make(map[uuid.UUID]models.CreatorProfile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var profiles []models.CreatorProfile
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		result[profile.UserID] = profile
	}
	return result, nil
}

func (r *repository) FindPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error) {
	var account models.CreatorPaymentAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// ClaimSettlement flips payout_status from none to processing with a
// conditional update. The rows-affected check is what makes the guard
// safe against a concurrent invoker; a plain read-then-write is not.
func (r *repository) ClaimSettlement(ctx context.Context, contestID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ? AND payout_status = ?", contestID, enums.ContestPayoutStatusNone).
		Update("payout_status", enums.ContestPayoutStatusProcessing)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) MarkSettled(ctx context.Context, contestID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ?", contestID).
		Update("payout_status", enums.ContestPayoutStatusCompleted).Error
}

func (r *repository) UpdateContestStatus(ctx context.Context, contestID uuid.UUID, status enums.ContestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ?", contestID).
		Update("status", status).Error
}

func (r *repository) ReplaceContestWinners(ctx context.Context, contestID uuid.UUID, winners []models.ContestWinner) error {
	if err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Delete(&models.ContestWinner{}).Error; err != nil {
		return err
	}
	if len(winners) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&winners).Error
}

func (r *repository) UpdateContestWinnerPayoutStatus(ctx context.Context, contestID uuid.UUID, position int, status enums.WinnerPayoutStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ContestWinner{}).
		Where("contest_id = ? AND position = ?", contestID, position).
		Update("payout_status", status).Error
}

func (r *repository) CreatePayout(ctx context.Context, payout *models.Payout) (*models.Payout, error) {
	if err := r.db.WithContext(ctx).Create(payout).Error; err != nil {
		return nil, err
	}
	return payout, nil
}

func (r *repository) UpdatePayoutStatus(ctx context.Context, payoutID uuid.UUID, status enums.PayoutStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ?", payoutID).
		Update("status", status).Error
}

func (r *repository) UpdateWinnerPayoutOutcome(ctx context.Context, winnerPayoutID uuid.UUID, outcome TransferOutcome) error {
	updates := map[string]any{
		"status":                 outcome.Status,
		"destination_account_id": outcome.DestinationAccountID,
		"transfer_id":            outcome.TransferID,
		"error_message":          outcome.ErrorMessage,
	}
	return r.db.WithContext(ctx).
		Model(&models.WinnerPayout{}).
		Where("id = ?", winnerPayoutID).
		Updates(updates).Error
}

func (r *repository) ListPayoutsByContest(ctx context.Context, contestID uuid.UUID) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.WithContext(ctx).
		Preload("WinnerPayouts").
		Where("contest_id = ?", contestID).
		Order("created_at DESC").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

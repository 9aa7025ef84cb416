package settlement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Repository exposes the persistence operations settlement needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindContest(ctx context.Context, contestID uuid.UUID) (*models.Contest, error)
	ListApprovedApplications(ctx context.Context, contestID uuid.UUID) ([]models.ContestApplication, error)
	FindCreatorProfiles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.CreatorProfile, error)
	FindPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error)

	ClaimSettlement(ctx context.Context, contestID uuid.UUID) (bool, error)
	MarkSettled(ctx context.Context, contestID uuid.UUID) error
	UpdateContestStatus(ctx context.Context, contestID uuid.UUID, status enums.ContestStatus) error

	ReplaceContestWinners(ctx context.Context, contestID uuid.UUID, winners []models.ContestWinner) error
	UpdateContestWinnerPayoutStatus(ctx context.Context, contestID uuid.UUID, position int, status enums.WinnerPayoutStatus) error

	CreatePayout(ctx context.Context, payout *models.Payout) (*models.Payout, error)
	UpdatePayoutStatus(ctx context.Context, payoutID uuid.UUID, status enums.PayoutStatus) error
	UpdateWinnerPayoutOutcome(ctx context.Context, winnerPayoutID uuid.UUID, outcome TransferOutcome) error
	ListPayoutsByContest(ctx context.Context, contestID uuid.UUID) ([]models.Payout, error)
}

// Notifier delivers best-effort notifications. Delivery failures must
// never fail settlement.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any)
}

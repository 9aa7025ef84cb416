package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service finalizes contest winners and drives payout settlement.
type Service interface {
	FinalizeWinners(ctx context.Context, input FinalizeWinnersInput) (*FinalizeWinnersResult, error)
	ProcessPayouts(ctx context.Context, input ProcessPayoutsInput) (*Result, error)
	ListPayouts(ctx context.Context, contestID uuid.UUID, actorUserID uuid.UUID, actorRole enums.UserRole) ([]models.Payout, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo           Repository
	Tx             txRunner
	Transfers      TransferClient
	Notifier       Notifier
	Logger         *logger.Logger
	Metrics        *metrics.SettlementMetrics
	Currency       string
	MaxWinnerCount int
}

type service struct {
	repo           Repository
	tx             txRunner
	transfers      TransferClient
	notifier       Notifier
	logger         *logger.Logger
	metrics        *metrics.SettlementMetrics
	currency       string
	maxWinnerCount int
}

// NewService builds a settlement service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("settlement repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Transfers == nil {
		return nil, fmt.Errorf("transfer client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	return &service{
		repo:           params.Repo,
		tx:             params.Tx,
		transfers:      params.Transfers,
		notifier:       params.Notifier,
		logger:         params.Logger,
		metrics:        params.Metrics,
		currency:       currency,
		maxWinnerCount: params.MaxWinnerCount,
	}, nil
}

func (s *service) FinalizeWinners(ctx context.Context, input FinalizeWinnersInput) (*FinalizeWinnersResult, error) {
	if input.ContestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	ctx = s.logger.WithContestID(ctx, input.ContestID.String())

	contest, err := s.loadContestForActor(ctx, input.ContestID, input.ActorUserID, input.ActorRole)
	if err != nil {
		return nil, err
	}
	switch contest.Status {
	case enums.ContestStatusActive:
	case enums.ContestStatusCompleted:
		if contest.PayoutStatus != enums.ContestPayoutStatusNone {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest already settled")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest is not ready for winner selection")
	}

	winners, err := s.computeWinners(ctx, contest)
	if err != nil {
		return nil, err
	}

	rows := winnerRows(contest.ID, winners)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceContestWinners(ctx, contest.ID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist contest winners")
		}
		if contest.Status != enums.ContestStatusCompleted {
			if err := repo.UpdateContestStatus(ctx, contest.ID, enums.ContestStatusCompleted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete contest")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, winner := range winners {
		s.notify(ctx, winner.UserID, enums.NotificationTypeWinnerSelected,
			fmt.Sprintf("You placed #%d in %s", winner.Position, contest.Title),
			map[string]any{"contest_id": contest.ID.String(), "position": winner.Position})
	}
	s.notify(ctx, contest.BrandUserID, enums.NotificationTypeContestCompleted,
		fmt.Sprintf("Winners finalized for %s", contest.Title),
		map[string]any{"contest_id": contest.ID.String(), "winner_count": len(winners)})

	s.logger.Info(s.logger.WithField(ctx, "winner_count", len(winners)), "settlement.winners_finalized")
	return &FinalizeWinnersResult{ContestID: contest.ID, Winners: rows}, nil
}

func (s *service) ProcessPayouts(ctx context.Context, input ProcessPayoutsInput) (*Result, error) {
	if input.ContestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	ctx = s.logger.WithContestID(ctx, input.ContestID.String())
	started := time.Now()

	contest, err := s.loadContestForActor(ctx, input.ContestID, input.ActorUserID, input.ActorRole)
	if err != nil {
		return nil, err
	}
	if contest.Status != enums.ContestStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest is not completed yet")
	}
	switch contest.PayoutStatus {
	case enums.ContestPayoutStatusCompleted:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest already settled")
	case enums.ContestPayoutStatusProcessing:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "settlement already in progress")
	}

	winners, err := s.computeWinners(ctx, contest)
	if err != nil {
		return nil, err
	}
	if len(winners) == 0 {
		// No approved applicants means nothing to pay. The contest keeps
		// payout_status none so a later re-run can settle if entries appear.
		s.metrics.ObserveRun("empty", time.Since(started))
		s.logger.Info(ctx, "settlement.no_winners")
		return &Result{ContestID: contest.ID, TotalAmount: decimal.Zero}, nil
	}

	totalAmount := decimal.Zero
	for _, winner := range winners {
		totalAmount = totalAmount.Add(winner.PrizeAmount)
	}

	payout := &models.Payout{
		ContestID:   contest.ID,
		BrandUserID: contest.BrandUserID,
		TotalAmount: totalAmount,
		Currency:    s.currency,
		Status:      enums.PayoutStatusPending,
	}
	for _, winner := range winners {
		payout.WinnerPayouts = append(payout.WinnerPayouts, models.WinnerPayout{
			ContestID: contest.ID,
			UserID:    winner.UserID,
			Position:  winner.Position,
			Amount:    winner.PrizeAmount,
			Status:    enums.WinnerPayoutStatusPending,
		})
	}

	// The claim and the ledger write commit together: either this invoker
	// owns the settlement and the Payout record exists, or neither happened.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		claimed, err := repo.ClaimSettlement(ctx, contest.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim settlement")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "contest already settled")
		}
		if err := repo.ReplaceContestWinners(ctx, contest.ID, winnerRows(contest.ID, winners)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist contest winners")
		}
		if _, err := repo.CreatePayout(ctx, payout); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payout record")
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveRun("error", time.Since(started))
		return nil, err
	}

	if err := s.repo.UpdatePayoutStatus(ctx, payout.ID, enums.PayoutStatusProcessing); err != nil {
		s.logger.Error(ctx, "settlement.mark_processing", err)
	}

	summary := Dispatch(ctx, contest.ID, winners, s.currency, accountDestinations{repo: s.repo}, s.transfers)
	s.recordOutcomes(ctx, contest, payout, summary)

	finalStatus := enums.PayoutStatusCompleted
	if summary.Succeeded == 0 {
		finalStatus = enums.PayoutStatusFailed
	}
	if err := s.repo.UpdatePayoutStatus(ctx, payout.ID, finalStatus); err != nil {
		s.logger.Error(ctx, "settlement.finalize_payout", err)
	}
	// Settlement completes once every winner has been attempted; per-winner
	// failures stay visible on the winner payout rows for manual retry.
	if err := s.repo.MarkSettled(ctx, contest.ID); err != nil {
		s.logger.Error(ctx, "settlement.mark_settled", err)
	}

	s.metrics.ObserveRun(finalStatus.String(), time.Since(started))
	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"payout_id": payout.ID.String(),
		"winners":   len(winners),
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}), "settlement.completed")

	return &Result{
		PayoutID:      payout.ID,
		ContestID:     contest.ID,
		TotalWinners:  len(winners),
		Succeeded:     summary.Succeeded,
		Failed:        summary.Failed,
		TotalAmount:   totalAmount,
		WinnerPayouts: payout.WinnerPayouts,
	}, nil
}

func (s *service) ListPayouts(ctx context.Context, contestID uuid.UUID, actorUserID uuid.UUID, actorRole enums.UserRole) ([]models.Payout, error) {
	if contestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	if _, err := s.loadContestForActor(ctx, contestID, actorUserID, actorRole); err != nil {
		return nil, err
	}
	payouts, err := s.repo.ListPayoutsByContest(ctx, contestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payouts")
	}
	return payouts, nil
}

func (s *service) loadContestForActor(ctx context.Context, contestID, actorUserID uuid.UUID, actorRole enums.UserRole) (*models.Contest, error) {
	contest, err := s.repo.FindContest(ctx, contestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contest")
	}
	if actorRole != enums.UserRoleAdmin && contest.BrandUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "contest does not belong to user")
	}
	return contest, nil
}

// computeWinners runs the pure stages: resolve metrics, rank, allocate.
func (s *service) computeWinners(ctx context.Context, contest *models.Contest) ([]Winner, error) {
	applications, err := s.repo.ListApprovedApplications(ctx, contest.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved applications")
	}
	if len(applications) == 0 {
		return nil, nil
	}

	userIDs := make([]uuid.UUID, 0, len(applications))
	for _, app := range applications {
		userIDs = append(userIDs, app.UserID)
	}
	profiles, err := s.repo.FindCreatorProfiles(ctx, userIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load creator profiles")
	}

	participants := make([]Participant, 0, len(applications))
	for _, app := range applications {
		participants = append(participants, Participant{
			ApplicationID: app.ID,
			UserID:        app.UserID,
			SubmittedAt:   app.CreatedAt,
			Profile:       buildProfile(app, profiles[app.UserID]),
		})
	}

	winnerCount := contest.WinnerCount
	if s.maxWinnerCount > 0 && winnerCount > s.maxWinnerCount {
		winnerCount = s.maxWinnerCount
	}
	criterion := contest.Criteria
	if !criterion.IsValid() {
		criterion = enums.RankingCriterionViews
	}

	ranked := Rank(participants, criterion, winnerCount)
	return Allocate(ranked, contest.TotalBudget, contest.Positions), nil
}

func (s *service) recordOutcomes(ctx context.Context, contest *models.Contest, payout *models.Payout, summary DispatchSummary) {
	byPosition := make(map[int]uuid.UUID, len(payout.WinnerPayouts))
	for _, wp := range payout.WinnerPayouts {
		byPosition[wp.Position] = wp.ID
	}
	for i, outcome := range summary.Outcomes {
		if id, ok := byPosition[outcome.Position]; ok {
			if err := s.repo.UpdateWinnerPayoutOutcome(ctx, id, outcome); err != nil {
				s.logger.Error(ctx, "settlement.record_outcome", err)
			}
		}
		if err := s.repo.UpdateContestWinnerPayoutStatus(ctx, contest.ID, outcome.Position, outcome.Status); err != nil {
			s.logger.Error(ctx, "settlement.update_winner_cache", err)
		}
		s.metrics.IncTransfer(outcome.Status.String())

		if i < len(payout.WinnerPayouts) {
			payout.WinnerPayouts[i].Status = outcome.Status
			payout.WinnerPayouts[i].DestinationAccountID = outcome.DestinationAccountID
			payout.WinnerPayouts[i].TransferID = outcome.TransferID
			payout.WinnerPayouts[i].ErrorMessage = outcome.ErrorMessage
		}

		if outcome.Status == enums.WinnerPayoutStatusCompleted {
			s.notify(ctx, outcome.UserID, enums.NotificationTypePayoutCompleted,
				fmt.Sprintf("Your prize for %s has been sent", contest.Title),
				map[string]any{"contest_id": contest.ID.String(), "amount": outcome.Amount.String()})
		} else {
			s.notify(ctx, outcome.UserID, enums.NotificationTypePayoutFailed,
				fmt.Sprintf("Your prize for %s could not be sent", contest.Title),
				map[string]any{"contest_id": contest.ID.String()})
		}
	}
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, kind, message, metadata)
}

func winnerRows(contestID uuid.UUID, winners []Winner) []models.ContestWinner {
	rows := make([]models.ContestWinner, 0, len(winners))
	for _, winner := range winners {
		rows = append(rows, models.ContestWinner{
			ContestID:     contestID,
			ApplicationID: winner.ApplicationID,
			UserID:        winner.UserID,
			Position:      winner.Position,
			PrizeAmount:   winner.PrizeAmount,
			MetricValue:   winner.MetricValue,
			PayoutStatus:  enums.WinnerPayoutStatusPending,
		})
	}
	return rows
}

// buildProfile merges the creator's stored metrics document with the
// application's metrics snapshot. The snapshot, when present, wins the
// top-level metrics block since it was captured at submission time.
func buildProfile(app models.ContestApplication, profile models.CreatorProfile) map[string]any {
	merged := map[string]any{}
	if len(profile.Data) > 0 {
		_ = json.Unmarshal(profile.Data, &merged)
	}
	if len(app.MetricsSnapshot) > 0 {
		var snapshot map[string]any
		if err := json.Unmarshal(app.MetricsSnapshot, &snapshot); err == nil && snapshot != nil {
			merged["tiktokMetrics"] = snapshot
		}
	}
	return merged
}

// accountDestinations resolves a winner's payable Stripe account. Missing
// accounts and accounts with payouts disabled both resolve to nil.
type accountDestinations struct {
	repo Repository
}

func (a accountDestinations) ResolveDestination(ctx context.Context, userID uuid.UUID) (*string, error) {
	account, err := a.repo.FindPaymentAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.PayoutsEnabled || account.StripeAccountID == "" {
		return nil, nil
	}
	return &account.StripeAccountID, nil
}

package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

type stubSettlementRepo struct {
	contest        *models.Contest
	applications   []models.ContestApplication
	profiles       map[uuid.UUID]models.CreatorProfile
	accounts       map[uuid.UUID]*models.CreatorPaymentAccount
	winners        []models.ContestWinner
	payouts        []*models.Payout
	payoutStatuses []enums.PayoutStatus
	winnerOutcomes map[uuid.UUID]TransferOutcome
	claimCalls     int
}

func (s *stubSettlementRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubSettlementRepo) FindContest(ctx context.Context, contestID uuid.UUID) (*models.Contest, error) {
	if s.contest == nil || s.contest.ID != contestID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.contest
	return &copied, nil
}

func (s *stubSettlementRepo) ListApprovedApplications(ctx context.Context, contestID uuid.UUID) ([]models.ContestApplication, error) {
	return s.applications, nil
}

func (s *stubSettlementRepo) FindCreatorProfiles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.CreatorProfile, error) {
	if s.profiles == nil {
		return map[uuid.UUID]models.CreatorProfile{}, nil
	}
	return s.profiles, nil
}

func (s *stubSettlementRepo) FindPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error) {
	return s.accounts[userID], nil
}

func (s *stubSettlementRepo) ClaimSettlement(ctx context.Context, contestID uuid.UUID) (bool, error) {
	s.claimCalls++
	if s.contest == nil || s.contest.PayoutStatus != enums.ContestPayoutStatusNone {
		return false, nil
	}
	s.contest.PayoutStatus = enums.ContestPayoutStatusProcessing
	return true, nil
}

func (s *stubSettlementRepo) MarkSettled(ctx context.Context, contestID uuid.UUID) error {
	s.contest.PayoutStatus = enums.ContestPayoutStatusCompleted
	return nil
}

func (s *stubSettlementRepo) UpdateContestStatus(ctx context.Context, contestID uuid.UUID, status enums.ContestStatus) error {
	s.contest.Status = status
	return nil
}

func (s *stubSettlementRepo) ReplaceContestWinners(ctx context.Context, contestID uuid.UUID, winners []models.ContestWinner) error {
	s.winners = winners
	return nil
}

func (s *stubSettlementRepo) UpdateContestWinnerPayoutStatus(ctx context.Context, contestID uuid.UUID, position int, status enums.WinnerPayoutStatus) error {
	for i := range s.winners {
		if s.winners[i].Position == position {
			s.winners[i].PayoutStatus = status
		}
	}
	return nil
}

func (s *stubSettlementRepo) CreatePayout(ctx context.Context, payout *models.Payout) (*models.Payout, error) {
	payout.ID = uuid.New()
	for i := range payout.WinnerPayouts {
		payout.WinnerPayouts[i].ID = uuid.New()
		payout.WinnerPayouts[i].PayoutID = payout.ID
	}
	s.payouts = append(s.payouts, payout)
	return payout, nil
}

func (s *stubSettlementRepo) UpdatePayoutStatus(ctx context.Context, payoutID uuid.UUID, status enums.PayoutStatus) error {
	s.payoutStatuses = append(s.payoutStatuses, status)
	for _, payout := range s.payouts {
		if payout.ID == payoutID {
			payout.Status = status
		}
	}
	return nil
}

func (s *stubSettlementRepo) UpdateWinnerPayoutOutcome(ctx context.Context, winnerPayoutID uuid.UUID, outcome TransferOutcome) error {
	if s.winnerOutcomes == nil {
		s.winnerOutcomes = make(map[uuid.UUID]TransferOutcome)
	}
	s.winnerOutcomes[winnerPayoutID] = outcome
	return nil
}

func (s *stubSettlementRepo) ListPayoutsByContest(ctx context.Context, contestID uuid.UUID) ([]models.Payout, error) {
	result := make([]models.Payout, 0, len(s.payouts))
	for _, payout := range s.payouts {
		result = append(result, *payout)
	}
	return result, nil
}

type notifyCall struct {
	userID uuid.UUID
	kind   enums.NotificationType
}

type stubNotifier struct {
	calls []notifyCall
}

func (s *stubNotifier) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any) {
	s.calls = append(s.calls, notifyCall{userID: userID, kind: kind})
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func snapshotWithViews(t *testing.T, views float64) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"views": views})
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return raw
}

func percentageContest(brandUserID uuid.UUID) *models.Contest {
	return &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandUserID,
		Title:       "Summer Shake Off",
		Status:      enums.ContestStatusCompleted,
		Criteria:    enums.RankingCriterionViews,
		TotalBudget: decimal.NewFromInt(1000),
		WinnerCount: 3,
		Positions: types.PrizePositions{
			{Percentage: pct(50)},
			{Percentage: pct(30)},
			{Percentage: pct(20)},
		},
		PayoutStatus: enums.ContestPayoutStatusNone,
	}
}

func applicationsWithViews(contestID uuid.UUID, t *testing.T, views ...float64) []models.ContestApplication {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	apps := make([]models.ContestApplication, 0, len(views))
	for i, v := range views {
		apps = append(apps, models.ContestApplication{
			ID:              uuid.New(),
			ContestID:       contestID,
			UserID:          uuid.New(),
			Status:          enums.ApplicationStatusApproved,
			MetricsSnapshot: snapshotWithViews(t, v),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		})
	}
	return apps
}

func newTestService(t *testing.T, repo *stubSettlementRepo, transfers TransferClient, notifier Notifier) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Tx:        stubTxRunner{},
		Transfers: transfers,
		Notifier:  notifier,
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Currency:  "usd",
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestProcessPayoutsHappyPath(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	apps := applicationsWithViews(contest.ID, t, 100, 50, 200)

	repo := &stubSettlementRepo{
		contest:      contest,
		applications: apps,
		accounts:     map[uuid.UUID]*models.CreatorPaymentAccount{},
	}
	for i, app := range apps {
		repo.accounts[app.UserID] = &models.CreatorPaymentAccount{
			UserID:          app.UserID,
			StripeAccountID: fmt.Sprintf("acct_%d", i+1),
			PayoutsEnabled:  true,
		}
	}
	transfers := &stubTransfers{}
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, transfers, notifier)

	result, err := svc.ProcessPayouts(context.Background(), ProcessPayoutsInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.TotalWinners != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Fatalf("unexpected summary %+v", result)
	}
	if !result.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected total 1000 got %s", result.TotalAmount)
	}

	// Highest views (the third entrant) takes position 1 at 50%.
	if repo.winners[0].UserID != apps[2].UserID || !repo.winners[0].PrizeAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected first place %+v", repo.winners[0])
	}
	if repo.winners[1].UserID != apps[0].UserID || !repo.winners[1].PrizeAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected second place %+v", repo.winners[1])
	}
	if repo.winners[2].UserID != apps[1].UserID || !repo.winners[2].PrizeAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected third place %+v", repo.winners[2])
	}

	if repo.contest.PayoutStatus != enums.ContestPayoutStatusCompleted {
		t.Fatalf("expected contest settled got %s", repo.contest.PayoutStatus)
	}
	if len(repo.payouts) != 1 {
		t.Fatalf("expected one payout record got %d", len(repo.payouts))
	}
	if repo.payouts[0].Status != enums.PayoutStatusCompleted {
		t.Fatalf("expected completed payout got %s", repo.payouts[0].Status)
	}
	if len(transfers.calls) != 3 {
		t.Fatalf("expected 3 transfers got %d", len(transfers.calls))
	}

	completed := 0
	for _, call := range notifier.calls {
		if call.kind == enums.NotificationTypePayoutCompleted {
			completed++
		}
	}
	if completed != 3 {
		t.Fatalf("expected 3 payout notifications got %d", completed)
	}
}

func TestProcessPayoutsSecondCallAlreadySettled(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	apps := applicationsWithViews(contest.ID, t, 100)
	repo := &stubSettlementRepo{
		contest:      contest,
		applications: apps,
		accounts: map[uuid.UUID]*models.CreatorPaymentAccount{
			apps[0].UserID: {UserID: apps[0].UserID, StripeAccountID: "acct_1", PayoutsEnabled: true},
		},
	}
	transfers := &stubTransfers{}
	svc := newTestService(t, repo, transfers, &stubNotifier{})

	input := ProcessPayoutsInput{ContestID: contest.ID, ActorUserID: brandID, ActorRole: enums.UserRoleBrand}
	if _, err := svc.ProcessPayouts(context.Background(), input); err != nil {
		t.Fatalf("first settlement failed: %v", err)
	}

	_, err := svc.ProcessPayouts(context.Background(), input)
	if err == nil {
		t.Fatal("expected second settlement to fail")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
	if len(repo.payouts) != 1 {
		t.Fatalf("second call must not create a payout, got %d", len(repo.payouts))
	}
	if len(transfers.calls) != 1 {
		t.Fatalf("second call must not transfer again, got %d calls", len(transfers.calls))
	}
}

func TestProcessPayoutsPartialFailureStillSettles(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	apps := applicationsWithViews(contest.ID, t, 300, 200, 100)
	repo := &stubSettlementRepo{
		contest:      contest,
		applications: apps,
		accounts: map[uuid.UUID]*models.CreatorPaymentAccount{
			apps[0].UserID: {UserID: apps[0].UserID, StripeAccountID: "acct_1", PayoutsEnabled: true},
			apps[2].UserID: {UserID: apps[2].UserID, StripeAccountID: "acct_3", PayoutsEnabled: true},
		},
	}
	svc := newTestService(t, repo, &stubTransfers{}, &stubNotifier{})

	result, err := svc.ProcessPayouts(context.Background(), ProcessPayoutsInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("partial failure must not fail settlement: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("expected 2/1 got %d/%d", result.Succeeded, result.Failed)
	}
	if repo.contest.PayoutStatus != enums.ContestPayoutStatusCompleted {
		t.Fatal("settlement completes once every winner was attempted")
	}
	if repo.payouts[0].Status != enums.PayoutStatusCompleted {
		t.Fatalf("expected completed payout got %s", repo.payouts[0].Status)
	}

	failed := 0
	for _, outcome := range repo.winnerOutcomes {
		if outcome.Status == enums.WinnerPayoutStatusFailed {
			failed++
			if outcome.ErrorMessage == nil || *outcome.ErrorMessage != "No payable destination" {
				t.Fatalf("unexpected failure message %v", outcome.ErrorMessage)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed outcome got %d", failed)
	}
}

func TestProcessPayoutsAllFailedMarksPayoutFailed(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	apps := applicationsWithViews(contest.ID, t, 100)
	repo := &stubSettlementRepo{
		contest:      contest,
		applications: apps,
		accounts:     map[uuid.UUID]*models.CreatorPaymentAccount{},
	}
	svc := newTestService(t, repo, &stubTransfers{}, &stubNotifier{})

	result, err := svc.ProcessPayouts(context.Background(), ProcessPayoutsInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("expected settlement to finish: %v", err)
	}
	if result.Succeeded != 0 || result.Failed != 1 {
		t.Fatalf("expected 0/1 got %d/%d", result.Succeeded, result.Failed)
	}
	if repo.payouts[0].Status != enums.PayoutStatusFailed {
		t.Fatalf("expected failed payout got %s", repo.payouts[0].Status)
	}
	if repo.contest.PayoutStatus != enums.ContestPayoutStatusCompleted {
		t.Fatal("contest still settles after all transfers failed")
	}
}

func TestProcessPayoutsNoApplicants(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	repo := &stubSettlementRepo{contest: contest}
	svc := newTestService(t, repo, &stubTransfers{}, &stubNotifier{})

	result, err := svc.ProcessPayouts(context.Background(), ProcessPayoutsInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("zero applicants is not an error: %v", err)
	}
	if result.TotalWinners != 0 {
		t.Fatalf("expected 0 winners got %d", result.TotalWinners)
	}
	if len(repo.payouts) != 0 {
		t.Fatal("no payout record should be created for zero winners")
	}
	if repo.contest.PayoutStatus != enums.ContestPayoutStatusNone {
		t.Fatalf("payout status must stay none, got %s", repo.contest.PayoutStatus)
	}
}

func TestProcessPayoutsContestNotCompleted(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	contest.Status = enums.ContestStatusActive
	repo := &stubSettlementRepo{contest: contest}
	svc := newTestService(t, repo, &stubTransfers{}, &stubNotifier{})

	_, err := svc.ProcessPayouts(context.Background(), ProcessPayoutsInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
	if repo.claimCalls != 0 {
		t.Fatal("precondition failure must not touch payout status")
	}
}

func TestProcessPayoutsForeignBrandForbidden(t *testing.T) {
	contest := percentageContest(uuid.New())
	repo := &stubSettlementRepo{contest: contest}
	svc := newTestService(t, repo, &stubTransfers{}, &stubNotifier{})

	_, err := svc.ProcessPayouts(context.Background(), ProcessPayoutsInput{
		ContestID:   contest.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleBrand,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestFinalizeWinnersPersistsAndCompletes(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	contest.Status = enums.ContestStatusActive
	apps := applicationsWithViews(contest.ID, t, 10, 30, 20)
	repo := &stubSettlementRepo{contest: contest, applications: apps}
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, &stubTransfers{}, notifier)

	result, err := svc.FinalizeWinners(context.Background(), FinalizeWinnersInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(result.Winners) != 3 {
		t.Fatalf("expected 3 winners got %d", len(result.Winners))
	}
	if repo.contest.Status != enums.ContestStatusCompleted {
		t.Fatalf("expected contest completed got %s", repo.contest.Status)
	}
	if result.Winners[0].UserID != apps[1].UserID {
		t.Fatal("expected the 30-view entrant in first place")
	}
	if len(repo.payouts) != 0 {
		t.Fatal("finalize must not dispatch payouts")
	}

	selected := 0
	for _, call := range notifier.calls {
		if call.kind == enums.NotificationTypeWinnerSelected {
			selected++
		}
	}
	if selected != 3 {
		t.Fatalf("expected 3 winner notifications got %d", selected)
	}
}

func TestFinalizeWinnersAfterSettlementRejected(t *testing.T) {
	brandID := uuid.New()
	contest := percentageContest(brandID)
	contest.PayoutStatus = enums.ContestPayoutStatusCompleted
	repo := &stubSettlementRepo{contest: contest}
	svc := newTestService(t, repo, &stubTransfers{}, &stubNotifier{})

	_, err := svc.FinalizeWinners(context.Background(), FinalizeWinnersInput{
		ContestID:   contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

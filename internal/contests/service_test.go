package contests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/pagination"
	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

type stubContestsRepo struct {
	contest *models.Contest
	winners []models.ContestWinner
	updates map[string]any
}

func (s *stubContestsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubContestsRepo) Create(ctx context.Context, contest *models.Contest) (*models.Contest, error) {
	if contest.ID == uuid.Nil {
		contest.ID = uuid.New()
	}
	s.contest = contest
	return contest, nil
}

func (s *stubContestsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	if s.contest == nil || s.contest.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.contest
	return &copied, nil
}

func (s *stubContestsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubContestsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ContestStatus) (bool, error) {
	if s.contest == nil || s.contest.Status != from {
		return false, nil
	}
	s.contest.Status = to
	return true, nil
}

func (s *stubContestsRepo) List(ctx context.Context, params listContestsParams) ([]models.Contest, *pagination.Cursor, error) {
	if s.contest == nil {
		return nil, nil, nil
	}
	return []models.Contest{*s.contest}, nil, nil
}

func (s *stubContestsRepo) ListWinners(ctx context.Context, contestID uuid.UUID) ([]models.ContestWinner, error) {
	return s.winners, nil
}

func pct(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func amt(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validCreateInput(brandID uuid.UUID) CreateContestInput {
	return CreateContestInput{
		BrandUserID: brandID,
		Title:       "Spring Dance Challenge",
		TotalBudget: decimal.NewFromInt(1000),
		WinnerCount: 3,
		Positions: types.PrizePositions{
			{Percentage: pct(50)},
			{Percentage: pct(30)},
			{Percentage: pct(20)},
		},
	}
}

func newContestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestCreateContestDefaults(t *testing.T) {
	repo := &stubContestsRepo{}
	svc := newContestService(t, repo)

	contest, err := svc.Create(context.Background(), validCreateInput(uuid.New()))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if contest.Status != enums.ContestStatusDraft {
		t.Fatalf("expected draft got %s", contest.Status)
	}
	if contest.Criteria != enums.RankingCriterionViews {
		t.Fatalf("expected views default got %s", contest.Criteria)
	}
	if contest.PayoutStatus != enums.ContestPayoutStatusNone {
		t.Fatalf("expected payout status none got %s", contest.PayoutStatus)
	}
}

func TestCreateContestRejectsMixedPrizeModes(t *testing.T) {
	svc := newContestService(t, &stubContestsRepo{})

	input := validCreateInput(uuid.New())
	input.Positions = types.PrizePositions{
		{Percentage: pct(50)},
		{Amount: amt(500)},
	}
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateContestRejectsOverspentTable(t *testing.T) {
	svc := newContestService(t, &stubContestsRepo{})

	over := validCreateInput(uuid.New())
	over.Positions = types.PrizePositions{{Percentage: pct(60)}, {Percentage: pct(60)}}
	if _, err := svc.Create(context.Background(), over); pkgerrors.As(err) == nil {
		t.Fatalf("expected percentage sum rejection got %v", err)
	}

	absolute := validCreateInput(uuid.New())
	absolute.Positions = types.PrizePositions{{Amount: amt(800)}, {Amount: amt(400)}}
	if _, err := svc.Create(context.Background(), absolute); pkgerrors.As(err) == nil {
		t.Fatalf("expected amount sum rejection got %v", err)
	}
}

func TestTransitionDraftToActive(t *testing.T) {
	brandID := uuid.New()
	repo := &stubContestsRepo{contest: &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandID,
		Status:      enums.ContestStatusDraft,
	}}
	svc := newContestService(t, repo)

	contest, err := svc.Transition(context.Background(), TransitionInput{
		ContestID:   repo.contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
		Target:      enums.ContestStatusActive,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if contest.Status != enums.ContestStatusActive {
		t.Fatalf("expected active got %s", contest.Status)
	}
}

func TestTransitionRequestEditLoopsBackToActive(t *testing.T) {
	brandID := uuid.New()
	repo := &stubContestsRepo{contest: &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandID,
		Status:      enums.ContestStatusActive,
	}}
	svc := newContestService(t, repo)

	if _, err := svc.Transition(context.Background(), TransitionInput{
		ContestID:   repo.contest.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleAdmin,
		Target:      enums.ContestStatusRequestEdit,
	}); err != nil {
		t.Fatalf("admin request_edit failed: %v", err)
	}

	contest, err := svc.Transition(context.Background(), TransitionInput{
		ContestID:   repo.contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
		Target:      enums.ContestStatusActive,
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if contest.Status != enums.ContestStatusActive {
		t.Fatalf("expected active got %s", contest.Status)
	}
}

func TestTransitionReviewDecisionsRequireAdmin(t *testing.T) {
	brandID := uuid.New()
	repo := &stubContestsRepo{contest: &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandID,
		Status:      enums.ContestStatusDraft,
	}}
	svc := newContestService(t, repo)

	_, err := svc.Transition(context.Background(), TransitionInput{
		ContestID:   repo.contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
		Target:      enums.ContestStatusRejected,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestTransitionFromTerminalStateRejected(t *testing.T) {
	brandID := uuid.New()
	repo := &stubContestsRepo{contest: &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandID,
		Status:      enums.ContestStatusCancelled,
	}}
	svc := newContestService(t, repo)

	_, err := svc.Transition(context.Background(), TransitionInput{
		ContestID:   repo.contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
		Target:      enums.ContestStatusActive,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestUpdateOnlyInEditableStates(t *testing.T) {
	brandID := uuid.New()
	repo := &stubContestsRepo{contest: &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandID,
		Status:      enums.ContestStatusActive,
		TotalBudget: decimal.NewFromInt(1000),
		WinnerCount: 3,
		Positions:   types.PrizePositions{{Percentage: pct(100)}},
	}}
	svc := newContestService(t, repo)

	title := "New Title"
	_, err := svc.Update(context.Background(), UpdateContestInput{
		ContestID:   repo.contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
		Title:       &title,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestUpdateRevalidatesPrizeConfig(t *testing.T) {
	brandID := uuid.New()
	repo := &stubContestsRepo{contest: &models.Contest{
		ID:          uuid.New(),
		BrandUserID: brandID,
		Status:      enums.ContestStatusDraft,
		TotalBudget: decimal.NewFromInt(1000),
		WinnerCount: 2,
		Positions:   types.PrizePositions{{Amount: amt(600)}, {Amount: amt(400)}},
	}}
	svc := newContestService(t, repo)

	// Shrinking the budget below the configured amounts must fail.
	smaller := decimal.NewFromInt(500)
	_, err := svc.Update(context.Background(), UpdateContestInput{
		ContestID:   repo.contest.ID,
		ActorUserID: brandID,
		ActorRole:   enums.UserRoleBrand,
		TotalBudget: &smaller,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestGetByIDIncludesWinners(t *testing.T) {
	contestID := uuid.New()
	repo := &stubContestsRepo{
		contest: &models.Contest{ID: contestID, BrandUserID: uuid.New(), Status: enums.ContestStatusCompleted},
		winners: []models.ContestWinner{
			{ContestID: contestID, Position: 1, PrizeAmount: decimal.NewFromInt(500)},
		},
	}
	svc := newContestService(t, repo)

	detail, err := svc.GetByID(context.Background(), contestID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(detail.Winners) != 1 || detail.Winners[0].Position != 1 {
		t.Fatalf("unexpected winners %+v", detail.Winners)
	}
}

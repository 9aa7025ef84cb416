package contests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/pagination"
	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

// Service defines contest lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateContestInput) (*models.Contest, error)
	GetByID(ctx context.Context, contestID uuid.UUID) (*ContestDetail, error)
	Update(ctx context.Context, input UpdateContestInput) (*models.Contest, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Contest, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
}

// NewService builds the contests service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contests repository required")
	}
	return &service{repo: repo}, nil
}

// CreateContestInput carries the fields for a new draft contest.
type CreateContestInput struct {
	BrandUserID uuid.UUID
	Title       string
	Description string
	TotalBudget decimal.Decimal
	WinnerCount int
	Positions   types.PrizePositions
	Criteria    enums.RankingCriterion
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateContestInput carries a partial update; nil fields are untouched.
// Only draft and request_edit contests may be edited.
type UpdateContestInput struct {
	ContestID   uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
	Title       *string
	Description *string
	TotalBudget *decimal.Decimal
	WinnerCount *int
	Positions   *types.PrizePositions
	Criteria    *enums.RankingCriterion
	StartDate   *time.Time
	EndDate     *time.Time
}

// TransitionInput moves a contest through its lifecycle.
type TransitionInput struct {
	ContestID   uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
	Target      enums.ContestStatus
}

// ListParams configures contest listing.
type ListParams struct {
	BrandUserID *uuid.UUID
	Status      *enums.ContestStatus
	Limit       int
	Cursor      string
}

// ListResult wraps returned contests and the cursor for the next page.
type ListResult struct {
	Items  []models.Contest `json:"items"`
	Cursor string           `json:"cursor"`
}

// ContestDetail is a contest plus its persisted winner summary.
type ContestDetail struct {
	Contest models.Contest         `json:"contest"`
	Winners []models.ContestWinner `json:"winners"`
}

// The lifecycle is monotonic except for the edit-request loop back to
// active. Rejected and cancelled are dead ends.
var allowedTransitions = map[enums.ContestStatus][]enums.ContestStatus{
	enums.ContestStatusDraft:       {enums.ContestStatusActive, enums.ContestStatusRejected, enums.ContestStatusCancelled},
	enums.ContestStatusActive:      {enums.ContestStatusCompleted, enums.ContestStatusRequestEdit, enums.ContestStatusCancelled},
	enums.ContestStatusRequestEdit: {enums.ContestStatusActive, enums.ContestStatusCancelled},
}

// Review decisions belong to admins, not the brand that owns the contest.
var adminOnlyTargets = map[enums.ContestStatus]bool{
	enums.ContestStatusRejected:    true,
	enums.ContestStatusRequestEdit: true,
}

func (s *service) Create(ctx context.Context, input CreateContestInput) (*models.Contest, error) {
	if input.BrandUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand user id required")
	}
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	criteria := input.Criteria
	if criteria == "" {
		criteria = enums.RankingCriterionViews
	}
	if !criteria.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ranking criteria")
	}
	if err := validatePrizeConfig(input.TotalBudget, input.WinnerCount, input.Positions); err != nil {
		return nil, err
	}

	contest := &models.Contest{
		BrandUserID:  input.BrandUserID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       enums.ContestStatusDraft,
		Criteria:     criteria,
		TotalBudget:  input.TotalBudget,
		WinnerCount:  input.WinnerCount,
		Positions:    input.Positions,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		PayoutStatus: enums.ContestPayoutStatusNone,
	}
	created, err := s.repo.Create(ctx, contest)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contest")
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, contestID uuid.UUID) (*ContestDetail, error) {
	if contestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	contest, err := s.findContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	winners, err := s.repo.ListWinners(ctx, contestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contest winners")
	}
	return &ContestDetail{Contest: *contest, Winners: winners}, nil
}

func (s *service) Update(ctx context.Context, input UpdateContestInput) (*models.Contest, error) {
	if input.ContestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	contest, err := s.findContestForActor(ctx, input.ContestID, input.ActorUserID, input.ActorRole)
	if err != nil {
		return nil, err
	}
	if contest.Status != enums.ContestStatusDraft && contest.Status != enums.ContestStatusRequestEdit {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest can only be edited in draft or request_edit")
	}

	updates := map[string]any{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Criteria != nil {
		if !input.Criteria.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ranking criteria")
		}
		updates["criteria"] = *input.Criteria
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}

	budget := contest.TotalBudget
	if input.TotalBudget != nil {
		budget = *input.TotalBudget
		updates["total_budget"] = budget
	}
	winnerCount := contest.WinnerCount
	if input.WinnerCount != nil {
		winnerCount = *input.WinnerCount
		updates["winner_count"] = winnerCount
	}
	positions := contest.Positions
	if input.Positions != nil {
		positions = *input.Positions
		updates["positions"] = positions
	}
	if input.TotalBudget != nil || input.WinnerCount != nil || input.Positions != nil {
		if err := validatePrizeConfig(budget, winnerCount, positions); err != nil {
			return nil, err
		}
	}

	if len(updates) == 0 {
		return contest, nil
	}
	if err := s.repo.Update(ctx, input.ContestID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contest")
	}
	return s.findContest(ctx, input.ContestID)
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Contest, error) {
	if input.ContestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contest status")
	}
	contest, err := s.findContestForActor(ctx, input.ContestID, input.ActorUserID, input.ActorRole)
	if err != nil {
		return nil, err
	}
	if adminOnlyTargets[input.Target] && input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "status change requires admin review")
	}
	if !transitionAllowed(contest.Status, input.Target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid contest status transition")
	}

	moved, err := s.repo.UpdateStatus(ctx, input.ContestID, contest.Status, input.Target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition contest")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest status changed concurrently")
	}
	return s.findContest(ctx, input.ContestID)
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listContestsParams{
		BrandUserID: params.BrandUserID,
		Status:      params.Status,
		Limit:       params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contests")
	}
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) findContest(ctx context.Context, contestID uuid.UUID) (*models.Contest, error) {
	contest, err := s.repo.FindByID(ctx, contestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contest")
	}
	return contest, nil
}

func (s *service) findContestForActor(ctx context.Context, contestID, actorUserID uuid.UUID, actorRole enums.UserRole) (*models.Contest, error) {
	contest, err := s.findContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if actorRole != enums.UserRoleAdmin && contest.BrandUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "contest does not belong to user")
	}
	return contest, nil
}

func transitionAllowed(from, to enums.ContestStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// validatePrizeConfig enforces the prize table rules: one mode per
// contest, percentages within 100% of the budget, and absolute amounts
// within the budget itself.
func validatePrizeConfig(totalBudget decimal.Decimal, winnerCount int, positions types.PrizePositions) error {
	if totalBudget.IsNegative() || totalBudget.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total budget must be positive")
	}
	if winnerCount < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "winner count must be at least 1")
	}
	if len(positions) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one prize position required")
	}

	percentages := 0
	amounts := 0
	percentageSum := decimal.Zero
	amountSum := decimal.Zero
	for _, position := range positions {
		switch {
		case position.Percentage != nil && position.Amount != nil:
			return pkgerrors.New(pkgerrors.CodeValidation, "prize position cannot set both amount and percentage")
		case position.Percentage != nil:
			if position.Percentage.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "prize percentage cannot be negative")
			}
			percentages++
			percentageSum = percentageSum.Add(*position.Percentage)
		case position.Amount != nil:
			if position.Amount.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "prize amount cannot be negative")
			}
			amounts++
			amountSum = amountSum.Add(*position.Amount)
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "prize position must set amount or percentage")
		}
	}
	if percentages > 0 && amounts > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "prize table cannot mix amounts and percentages")
	}
	if percentages > 0 && percentageSum.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "prize percentages cannot exceed 100")
	}
	if amounts > 0 && amountSum.GreaterThan(totalBudget) {
		return pkgerrors.New(pkgerrors.CodeValidation, "prize amounts cannot exceed total budget")
	}
	return nil
}

var oneHundred = decimal.NewFromInt(100)

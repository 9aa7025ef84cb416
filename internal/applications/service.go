package applications

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db"
	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
)

type contestsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error)
}

// Notifier delivers review-decision notifications best effort.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any)
}

// Service defines contest application operations.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*models.ContestApplication, error)
	Review(ctx context.Context, input ReviewInput) (*models.ContestApplication, error)
	ListByContest(ctx context.Context, input ListByContestInput) ([]models.ContestApplication, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.ContestApplication, error)
}

type service struct {
	repo     Repository
	contests contestsRepository
	notifier Notifier
}

// NewService builds the applications service.
func NewService(repo Repository, contests contestsRepository, notifier Notifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "applications repository required")
	}
	if contests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contests repository required")
	}
	return &service{repo: repo, contests: contests, notifier: notifier}, nil
}

// ApplyInput carries a creator's contest entry. MetricsSnapshot is the
// creator's metrics document captured at submission time.
type ApplyInput struct {
	ContestID       uuid.UUID
	UserID          uuid.UUID
	PostURL         string
	MetricsSnapshot json.RawMessage
}

// ReviewDecision is the action a brand takes on a pending application.
type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

// ReviewInput carries a brand's decision on one application.
type ReviewInput struct {
	ApplicationID uuid.UUID
	Decision      ReviewDecision
	ActorUserID   uuid.UUID
	ActorRole     enums.UserRole
}

// ListByContestInput filters a contest's applications for its brand.
type ListByContestInput struct {
	ContestID   uuid.UUID
	Status      *enums.ApplicationStatus
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

func (s *service) Apply(ctx context.Context, input ApplyInput) (*models.ContestApplication, error) {
	if input.ContestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	contest, err := s.contests.FindByID(ctx, input.ContestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contest")
	}
	if contest.Status != enums.ContestStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contest is not accepting applications")
	}

	application := &models.ContestApplication{
		ContestID:       input.ContestID,
		UserID:          input.UserID,
		Status:          enums.ApplicationStatusPending,
		PostURL:         input.PostURL,
		MetricsSnapshot: input.MetricsSnapshot,
	}
	created, err := s.repo.Create(ctx, application)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "creator already applied to this contest")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}
	return created, nil
}

func (s *service) Review(ctx context.Context, input ReviewInput) (*models.ContestApplication, error) {
	if input.ApplicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}
	target, notification, err := mapDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	application, err := s.repo.FindByID(ctx, input.ApplicationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	contest, err := s.contests.FindByID(ctx, application.ContestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contest")
	}
	if input.ActorRole != enums.UserRoleAdmin && contest.BrandUserID != input.ActorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "contest does not belong to user")
	}
	if application.Status != enums.ApplicationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "application already reviewed")
	}

	moved, err := s.repo.UpdateStatus(ctx, application.ID, enums.ApplicationStatusPending, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application status")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "application reviewed concurrently")
	}
	application.Status = target

	if s.notifier != nil {
		message := "Your application to " + contest.Title + " was approved"
		if target == enums.ApplicationStatusRejected {
			message = "Your application to " + contest.Title + " was rejected"
		}
		s.notifier.Notify(ctx, application.UserID, notification, message,
			map[string]any{"contest_id": contest.ID.String(), "application_id": application.ID.String()})
	}
	return application, nil
}

func (s *service) ListByContest(ctx context.Context, input ListByContestInput) ([]models.ContestApplication, error) {
	if input.ContestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contest id required")
	}
	contest, err := s.contests.FindByID(ctx, input.ContestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contest")
	}
	if input.ActorRole != enums.UserRoleAdmin && contest.BrandUserID != input.ActorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "contest does not belong to user")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status filter")
	}

	applications, err := s.repo.ListByContest(ctx, input.ContestID, input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return applications, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.ContestApplication, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	applications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return applications, nil
}

func mapDecision(decision ReviewDecision) (enums.ApplicationStatus, enums.NotificationType, error) {
	switch decision {
	case ReviewDecisionApprove:
		return enums.ApplicationStatusApproved, enums.NotificationTypeApplicationApproved, nil
	case ReviewDecisionReject:
		return enums.ApplicationStatusRejected, enums.NotificationTypeApplicationRejected, nil
	default:
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "invalid review decision")
	}
}

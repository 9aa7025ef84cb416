package applications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
)

type stubApplicationsRepo struct {
	application *models.ContestApplication
	createErr   error
	created     []*models.ContestApplication
	listed      []models.ContestApplication
}

func (s *stubApplicationsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubApplicationsRepo) Create(ctx context.Context, application *models.ContestApplication) (*models.ContestApplication, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	s.created = append(s.created, application)
	return application, nil
}

func (s *stubApplicationsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContestApplication, error) {
	if s.application == nil || s.application.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.application, nil
}

func (s *stubApplicationsRepo) ListByContest(ctx context.Context, contestID uuid.UUID, status *enums.ApplicationStatus) ([]models.ContestApplication, error) {
	return s.listed, nil
}

func (s *stubApplicationsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ContestApplication, error) {
	return s.listed, nil
}

func (s *stubApplicationsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ApplicationStatus) (bool, error) {
	if s.application == nil || s.application.Status != from {
		return false, nil
	}
	s.application.Status = to
	return true, nil
}

type stubContests struct {
	contest *models.Contest
}

func (s *stubContests) FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	if s.contest == nil || s.contest.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.contest, nil
}

type recordedNotification struct {
	userID uuid.UUID
	kind   enums.NotificationType
}

type stubNotifier struct {
	calls []recordedNotification
}

func (s *stubNotifier) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any) {
	s.calls = append(s.calls, recordedNotification{userID: userID, kind: kind})
}

func newApplicationsService(t *testing.T, repo Repository, contests contestsRepository, notifier Notifier) Service {
	t.Helper()
	svc, err := NewService(repo, contests, notifier)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func activeContest(brandID uuid.UUID) *models.Contest {
	return &models.Contest{ID: uuid.New(), BrandUserID: brandID, Title: "Dance Off", Status: enums.ContestStatusActive}
}

func TestApplyToActiveContest(t *testing.T) {
	contest := activeContest(uuid.New())
	repo := &stubApplicationsRepo{}
	svc := newApplicationsService(t, repo, &stubContests{contest: contest}, nil)

	application, err := svc.Apply(context.Background(), ApplyInput{
		ContestID: contest.ID,
		UserID:    uuid.New(),
		PostURL:   "https://example.com/post/1",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if application.Status != enums.ApplicationStatusPending {
		t.Fatalf("expected pending got %s", application.Status)
	}
}

func TestApplyToInactiveContestRejected(t *testing.T) {
	contest := activeContest(uuid.New())
	contest.Status = enums.ContestStatusDraft
	svc := newApplicationsService(t, &stubApplicationsRepo{}, &stubContests{contest: contest}, nil)

	_, err := svc.Apply(context.Background(), ApplyInput{ContestID: contest.ID, UserID: uuid.New()})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestApplyTwiceIsConflict(t *testing.T) {
	contest := activeContest(uuid.New())
	repo := &stubApplicationsRepo{
		createErr: errors.New(`duplicate key value violates unique constraint "contest_applications_contest_id_user_id_key"`),
	}
	svc := newApplicationsService(t, repo, &stubContests{contest: contest}, nil)

	_, err := svc.Apply(context.Background(), ApplyInput{ContestID: contest.ID, UserID: uuid.New()})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestReviewApproveNotifiesCreator(t *testing.T) {
	brandID := uuid.New()
	contest := activeContest(brandID)
	creatorID := uuid.New()
	repo := &stubApplicationsRepo{application: &models.ContestApplication{
		ID:        uuid.New(),
		ContestID: contest.ID,
		UserID:    creatorID,
		Status:    enums.ApplicationStatusPending,
	}}
	notifier := &stubNotifier{}
	svc := newApplicationsService(t, repo, &stubContests{contest: contest}, notifier)

	application, err := svc.Review(context.Background(), ReviewInput{
		ApplicationID: repo.application.ID,
		Decision:      ReviewDecisionApprove,
		ActorUserID:   brandID,
		ActorRole:     enums.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if application.Status != enums.ApplicationStatusApproved {
		t.Fatalf("expected approved got %s", application.Status)
	}
	if len(notifier.calls) != 1 || notifier.calls[0].kind != enums.NotificationTypeApplicationApproved {
		t.Fatalf("unexpected notifications %+v", notifier.calls)
	}
	if notifier.calls[0].userID != creatorID {
		t.Fatal("notification must go to the creator")
	}
}

func TestReviewAlreadyReviewed(t *testing.T) {
	brandID := uuid.New()
	contest := activeContest(brandID)
	repo := &stubApplicationsRepo{application: &models.ContestApplication{
		ID:        uuid.New(),
		ContestID: contest.ID,
		UserID:    uuid.New(),
		Status:    enums.ApplicationStatusApproved,
	}}
	svc := newApplicationsService(t, repo, &stubContests{contest: contest}, nil)

	_, err := svc.Review(context.Background(), ReviewInput{
		ApplicationID: repo.application.ID,
		Decision:      ReviewDecisionReject,
		ActorUserID:   brandID,
		ActorRole:     enums.UserRoleBrand,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestReviewForeignBrandForbidden(t *testing.T) {
	contest := activeContest(uuid.New())
	repo := &stubApplicationsRepo{application: &models.ContestApplication{
		ID:        uuid.New(),
		ContestID: contest.ID,
		UserID:    uuid.New(),
		Status:    enums.ApplicationStatusPending,
	}}
	svc := newApplicationsService(t, repo, &stubContests{contest: contest}, nil)

	_, err := svc.Review(context.Background(), ReviewInput{
		ApplicationID: repo.application.ID,
		Decision:      ReviewDecisionApprove,
		ActorUserID:   uuid.New(),
		ActorRole:     enums.UserRoleBrand,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestListByContestForeignBrandForbidden(t *testing.T) {
	contest := activeContest(uuid.New())
	svc := newApplicationsService(t, &stubApplicationsRepo{}, &stubContests{contest: contest}, nil)

	_, err := svc.ListByContest(context.Background(), ListByContestInput{
		ContestID:   contest.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleBrand,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

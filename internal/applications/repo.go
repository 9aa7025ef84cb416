package applications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Repository exposes persistence helpers for contest applications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, application *models.ContestApplication) (*models.ContestApplication, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContestApplication, error)
	ListByContest(ctx context.Context, contestID uuid.UUID, status *enums.ApplicationStatus) ([]models.ContestApplication, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ContestApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ApplicationStatus) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an applications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, application *models.ContestApplication) (*models.ContestApplication, error) {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContestApplication, error) {
	var application models.ContestApplication
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ListByContest returns applications in submission order ascending. The
// ranking tie-break depends on this ordering.
func (r *repository) ListByContest(ctx context.Context, contestID uuid.UUID, status *enums.ApplicationStatus) ([]models.ContestApplication, error) {
	query := r.db.WithContext(ctx).Where("contest_id = ?", contestID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var applications []models.ContestApplication
	if err := query.Order("created_at ASC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ContestApplication, error) {
	var applications []models.ContestApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ApplicationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ContestApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

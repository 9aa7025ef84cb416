package contests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	"github.com/Moyo-Made/social-shake-backend/pkg/pagination"
)

// Repository exposes persistence helpers for contests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, contest *models.Contest) (*models.Contest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ContestStatus) (bool, error)
	List(ctx context.Context, params listContestsParams) ([]models.Contest, *pagination.Cursor, error)
	ListWinners(ctx context.Context, contestID uuid.UUID) ([]models.ContestWinner, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a contests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listContestsParams struct {
	BrandUserID *uuid.UUID
	Status      *enums.ContestStatus
	Limit       int
	Cursor      *pagination.Cursor
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, contest *models.Contest) (*models.Contest, error) {
	if err := r.db.WithContext(ctx).Create(contest).Error; err != nil {
		return nil, err
	}
	return contest, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	var contest models.Contest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&contest).Error
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatus performs a conditional transition so concurrent actors
// cannot both move the contest out of the same state.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ContestStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) List(ctx context.Context, params listContestsParams) ([]models.Contest, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Contest{})
	if params.BrandUserID != nil {
		query = query.Where("brand_user_id = ?", *params.BrandUserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var contests []models.Contest
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&contests).Error; err != nil {
		return nil, nil, err
	}

	if len(contests) > normalized {
		next := contests[normalized]
		contests = contests[:normalized]
		return contests, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return contests, nil, nil
}

func (r *repository) ListWinners(ctx context.Context, contestID uuid.UUID) ([]models.ContestWinner, error) {
	var winners []models.ContestWinner
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("position ASC").
		Find(&winners).Error
	if err != nil {
		return nil, err
	}
	return winners, nil
}

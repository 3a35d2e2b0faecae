package checkins

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
)

// Repository persists front-desk check-ins.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, checkIn *models.CheckIn) (*models.CheckIn, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]models.CheckIn, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a check-in repository backed by the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, checkIn *models.CheckIn) (*models.CheckIn, error) {
	if err := r.db.WithContext(ctx).Create(checkIn).Error; err != nil {
		return nil, err
	}
	return checkIn, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]models.CheckIn, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("checked_in_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

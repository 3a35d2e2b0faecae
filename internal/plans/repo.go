package plans

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// Repository exposes read access to membership plans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.MembershipPlan, error)
	FindByID(ctx context.Context, id string) (*models.MembershipPlan, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a plan repository backed by the provided DB handle.
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

func (r *repository) ListActive(ctx context.Context) ([]models.MembershipPlan, error) {
	var rows []models.MembershipPlan
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.MembershipPlan, error) {
	var row models.MembershipPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, err
	}
	return &row, nil
}

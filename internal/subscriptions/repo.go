package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// Repository persists subscriptions and their payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Subscription, error)
	FindActiveForMember(ctx context.Context, memberID uuid.UUID, at time.Time) (*models.Subscription, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a subscription repository backed by the provided DB handle.
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

func (r *repository) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	if sub == nil {
		return nil, errors.New("subscription required")
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment == nil {
		return nil, errors.New("payment required")
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var row models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("member_id = ?", memberID).
		Order("start_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindActiveForMember(ctx context.Context, memberID uuid.UUID, at time.Time) (*models.Subscription, error) {
	var row models.Subscription
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Where("status = ?", enums.SubscriptionStatusActive).
		Where("start_date <= ? AND end_date >= ?", at, at).
		Order("end_date DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active subscription")
		}
		return nil, err
	}
	return &row, nil
}

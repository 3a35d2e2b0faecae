package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueRow is one aggregate bucket of the revenue report.
type RevenueRow struct {
	Method       string          `json:"method"`
	DocumentType string          `json:"documentType"`
	Payments     int64           `json:"payments"`
	Total        decimal.Decimal `json:"total"`
}

// Repository runs reporting aggregates.
type Repository interface {
	RevenueBetween(ctx context.Context, from, to time.Time) ([]RevenueRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a report repository backed by the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) RevenueBetween(ctx context.Context, from, to time.Time) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("method, document_type, COUNT(*) AS payments, COALESCE(SUM(amount), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("method").
		Group("document_type").
		Order("method ASC").
		Order("document_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

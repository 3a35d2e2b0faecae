package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/pkg/enums"
)

// Subscription is the persisted outcome of a completed checkout.
// PlanName is denormalized so the record survives plan renames.
type Subscription struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID       uuid.UUID                `gorm:"column:member_id;type:uuid;not null;index"`
	PlanID         string                   `gorm:"column:plan_id;not null"`
	PlanName       string                   `gorm:"column:plan_name;not null"`
	StartDate      time.Time                `gorm:"column:start_date;not null"`
	EndDate        time.Time                `gorm:"column:end_date;not null"`
	DurationMonths int                      `gorm:"column:duration_months;not null"`
	Quantity       int                      `gorm:"column:quantity;not null;default:1"`
	UnitPrice      decimal.Decimal          `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalAmount    decimal.Decimal          `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DocumentType   enums.DocumentType       `gorm:"column:document_type;type:document_type;not null;default:'tax_invoice_receipt'"`
	Status         enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	Payments       []Payment                `gorm:"foreignKey:SubscriptionID"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the subscription covers the given instant.
func (s Subscription) ActiveAt(at time.Time) bool {
	if s.Status != enums.SubscriptionStatusActive {
		return false
	}
	return !at.Before(s.StartDate) && !at.After(s.EndDate)
}

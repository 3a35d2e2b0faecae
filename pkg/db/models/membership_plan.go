package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// MembershipPlan is a group subscription offering. Its monthly price seeds
// the unit price of new checkout drafts.
type MembershipPlan struct {
	ID            string          `gorm:"column:id;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	PricePerMonth decimal.Decimal `gorm:"column:price_per_month;type:numeric(12,2);not null"`
	Active        bool            `gorm:"column:active;not null;default:true"`
	Features      pq.StringArray  `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	SortOrder     int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn is a single member entry event at the front desk.
type CheckIn struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID       uuid.UUID `gorm:"column:member_id;type:uuid;not null;index"`
	SubscriptionID uuid.UUID `gorm:"column:subscription_id;type:uuid;not null"`
	CheckedInAt    time.Time `gorm:"column:checked_in_at;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

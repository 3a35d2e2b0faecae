package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Member is a club member record. Member CRUD is managed elsewhere; the
// checkout flow only reads it.
type Member struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null"`
	Email     *string    `gorm:"column:email"`
	Phone     *string    `gorm:"column:phone"`
	Address   *string    `gorm:"column:address"`
	Active    bool       `gorm:"column:active;not null;default:true"`
	JoinedAt  *time.Time `gorm:"column:joined_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins first and last name for display and gateway payloads.
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

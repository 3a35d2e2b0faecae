package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/pkg/enums"
)

// Payment records how a subscription was settled. Details holds the
// method-specific sub-record snapshot; only the active method's record is
// ever written. Card details never carry more than the last four digits.
type Payment struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID    uuid.UUID           `gorm:"column:subscription_id;type:uuid;not null;index"`
	MemberID          uuid.UUID           `gorm:"column:member_id;type:uuid;not null;index"`
	Method            enums.PaymentMethod `gorm:"column:method;type:payment_method;not null;default:'cash'"`
	Amount            decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Installments      int                 `gorm:"column:installments;not null;default:1"`
	InstallmentAmount *decimal.Decimal    `gorm:"column:installment_amount;type:numeric(12,2)"`
	DocumentType      enums.DocumentType  `gorm:"column:document_type;type:document_type;not null"`
	Details           json.RawMessage     `gorm:"column:details;type:jsonb"`
	HypPaymentID      *string             `gorm:"column:hyp_payment_id"`
	SendReceipt       bool                `gorm:"column:send_receipt;not null;default:false"`
	ReceiptEmail      *string             `gorm:"column:receipt_email"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}

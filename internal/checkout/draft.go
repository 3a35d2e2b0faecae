package checkout

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/pkg/enums"
)

// DraftStatus is the lifecycle state of a checkout draft.
type DraftStatus string

const (
	DraftStatusOpen       DraftStatus = "open"
	DraftStatusSubmitting DraftStatus = "submitting"
	DraftStatusSubmitted  DraftStatus = "submitted"
)

// CardDetails stores masked card metadata. Only the last four digits of the
// card number are ever retained.
type CardDetails struct {
	Last4      string `json:"last4" validate:"omitempty,len=4,numeric"`
	Expiry     string `json:"expiry" validate:"omitempty,len=5"`
	HolderName string `json:"holderName"`
}

// CheckDetails stores check payment metadata.
type CheckDetails struct {
	Number   string     `json:"number" validate:"required"`
	Date     *time.Time `json:"date"`
	BankName string     `json:"bankName"`
}

// BankDetails stores bank transfer metadata.
type BankDetails struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	BankName      string `json:"bankName"`
	Branch        string `json:"branch"`
	Reference     string `json:"reference"`
}

// HypDetails carries the gateway payment identifier, populated only after a
// verified gateway return.
type HypDetails struct {
	PaymentID string `json:"paymentId"`
}

// Draft is the server-held working state of the subscription wizard. It
// lives in redis until it is submitted or cancelled. Detail sub-records for
// inactive payment methods are kept so switching methods back and forth
// does not lose input; only the active method's record is persisted.
type Draft struct {
	ID       string    `json:"id"`
	MemberID uuid.UUID `json:"memberId"`

	PlanID   string `json:"planId"`
	PlanName string `json:"planName"`

	StartDate      time.Time `json:"startDate"`
	DurationMonths int       `json:"durationMonths"`

	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalOverridden bool            `json:"totalOverridden"`

	DocumentType  enums.DocumentType  `json:"documentType"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`

	Card  *CardDetails  `json:"card,omitempty"`
	Check *CheckDetails `json:"check,omitempty"`
	Bank  *BankDetails  `json:"bank,omitempty"`
	Hyp   *HypDetails   `json:"hyp,omitempty"`

	Installments int     `json:"installments"`
	SendReceipt  bool    `json:"sendReceipt"`
	ReceiptEmail *string `json:"receiptEmail,omitempty"`

	Step   int         `json:"step"`
	Status DraftStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EndDate derives the subscription end from start plus duration. It is never
// stored independently.
func (d Draft) EndDate() time.Time {
	return d.StartDate.AddDate(0, d.DurationMonths, 0)
}

// InstallmentAmount returns the per-installment charge, or nil when the
// draft is a single payment.
func (d Draft) InstallmentAmount() *decimal.Decimal {
	if d.Installments <= 1 {
		return nil
	}
	amount := PerInstallment(d.TotalAmount, d.Installments)
	return &amount
}

// SanitizeLast4 reduces any entered card number to its final four digits.
func SanitizeLast4(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

// description builds the human-readable charge description sent to the
// gateway.
func (d Draft) description() string {
	parts := []string{d.PlanName}
	if d.DurationMonths == 1 {
		parts = append(parts, "1 month")
	} else if d.DurationMonths > 1 {
		parts = append(parts, strconv.Itoa(d.DurationMonths)+" months")
	}
	return strings.TrimSpace(strings.Join(parts, ", "))
}

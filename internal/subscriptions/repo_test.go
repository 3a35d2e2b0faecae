package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	subscriptions := `
CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  member_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  plan_name TEXT NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  duration_months INTEGER NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  document_type TEXT NOT NULL DEFAULT 'tax_invoice_receipt',
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  subscription_id TEXT NOT NULL,
  member_id TEXT NOT NULL,
  method TEXT NOT NULL DEFAULT 'cash',
  amount TEXT NOT NULL,
  installments INTEGER NOT NULL DEFAULT 1,
  installment_amount TEXT,
  document_type TEXT NOT NULL,
  details TEXT,
  hyp_payment_id TEXT,
  send_receipt INTEGER NOT NULL DEFAULT 0,
  receipt_email TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(subscriptions).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func newSubscription(memberID uuid.UUID, start time.Time, months int) *models.Subscription {
	return &models.Subscription{
		ID:             uuid.New(),
		MemberID:       memberID,
		PlanID:         "gold",
		PlanName:       "Gold",
		StartDate:      start,
		EndDate:        start.AddDate(0, months, 0),
		DurationMonths: months,
		Quantity:       1,
		UnitPrice:      decimal.RequireFromString("150"),
		TotalAmount:    decimal.RequireFromString("150").Mul(decimal.NewFromInt(int64(months))),
		DocumentType:   enums.DocumentTypeTaxInvoiceReceipt,
		Status:         enums.SubscriptionStatusActive,
	}
}

func TestRepositoryCreateAndFindWithPayments(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	memberID := uuid.New()
	sub, err := repo.Create(ctx, newSubscription(memberID, time.Now().UTC(), 3))
	require.NoError(t, err)

	installment := decimal.RequireFromString("150")
	_, err = repo.CreatePayment(ctx, &models.Payment{
		ID:                uuid.New(),
		SubscriptionID:    sub.ID,
		MemberID:          memberID,
		Method:            enums.PaymentMethodCard,
		Amount:            sub.TotalAmount,
		Installments:      3,
		InstallmentAmount: &installment,
		DocumentType:      enums.DocumentTypeTaxInvoiceReceipt,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold", found.PlanName)
	require.Len(t, found.Payments, 1)
	assert.Equal(t, enums.PaymentMethodCard, found.Payments[0].Method)
	assert.Equal(t, 3, found.Payments[0].Installments)
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryListByMemberOrdersByStartDate(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	memberID := uuid.New()
	old := newSubscription(memberID, time.Now().UTC().AddDate(-1, 0, 0), 12)
	recent := newSubscription(memberID, time.Now().UTC(), 1)
	_, err := repo.Create(ctx, old)
	require.NoError(t, err)
	_, err = repo.Create(ctx, recent)
	require.NoError(t, err)

	rows, err := repo.ListByMember(ctx, memberID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, recent.ID, rows[0].ID)
	assert.Equal(t, old.ID, rows[1].ID)
}

func TestRepositoryFindActiveForMember(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	memberID := uuid.New()
	now := time.Now().UTC()
	current := newSubscription(memberID, now.AddDate(0, -1, 0), 3)
	expired := newSubscription(memberID, now.AddDate(-1, 0, 0), 1)
	expired.Status = enums.SubscriptionStatusExpired
	_, err := repo.Create(ctx, current)
	require.NoError(t, err)
	_, err = repo.Create(ctx, expired)
	require.NoError(t, err)

	found, err := repo.FindActiveForMember(ctx, memberID, now)
	require.NoError(t, err)
	assert.Equal(t, current.ID, found.ID)

	_, err = repo.FindActiveForMember(ctx, memberID, now.AddDate(0, 6, 0))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

package hyp

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/pkg/config"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

type fakeGatewayClient struct {
	session      *Session
	sessionErr   error
	verification *Verification
	verifyErr    error
	sessions     []SessionInput
	verifies     []string
}

func (f *fakeGatewayClient) CreateSession(_ context.Context, input SessionInput) (*Session, error) {
	f.sessions = append(f.sessions, input)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	if f.session != nil {
		return f.session, nil
	}
	return &Session{TransactionID: "txn-1", RedirectURL: "https://pay.example/s/txn-1"}, nil
}

func (f *fakeGatewayClient) VerifyPayment(_ context.Context, transactionID, paymentID string) (*Verification, error) {
	f.verifies = append(f.verifies, transactionID+"/"+paymentID)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if f.verification != nil {
		return f.verification, nil
	}
	return &Verification{Paid: true, ReceiptURL: "https://pay.example/r/1"}, nil
}

func newGatewayService(t *testing.T, client *fakeGatewayClient) (Service, *PendingStore) {
	t.Helper()
	pending := NewPendingStore(newFakePendingClient(), time.Hour)
	svc, err := NewService(ServiceParams{
		Client:  client,
		Pending: pending,
		Config: config.HypConfig{
			ReturnBaseURL: "https://api.fitcore.club",
		},
		Logger: logger.New(logger.Options{ServiceName: "hyp-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, pending
}

func TestStartHandoffCreatesSessionAndPendingTransaction(t *testing.T) {
	client := &fakeGatewayClient{}
	svc, pending := newGatewayService(t, client)

	handoff, err := svc.StartHandoff(context.Background(), HandoffInput{
		DraftID:      "d-1",
		Amount:       decimal.RequireFromString("450"),
		Description:  "Gold, 3 months",
		Installments: 2,
		MemberName:   "Dana Levi",
	})
	if err != nil {
		t.Fatalf("start handoff: %v", err)
	}
	if handoff.Token == "" || handoff.RedirectURL == "" {
		t.Fatalf("incomplete handoff: %+v", handoff)
	}

	if len(client.sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(client.sessions))
	}
	session := client.sessions[0]
	if !strings.HasPrefix(session.SuccessURL, "https://api.fitcore.club/payment/success?token=") {
		t.Fatalf("unexpected success url: %s", session.SuccessURL)
	}
	if !strings.HasPrefix(session.CancelURL, "https://api.fitcore.club/payment/cancel?token=") {
		t.Fatalf("unexpected cancel url: %s", session.CancelURL)
	}

	tx, err := pending.Consume(context.Background(), handoff.Token)
	if err != nil {
		t.Fatalf("pending transaction missing: %v", err)
	}
	if tx.DraftID != "d-1" || tx.TransactionID != "txn-1" {
		t.Fatalf("pending transaction mismatch: %+v", tx)
	}
}

func TestStartHandoffRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newGatewayService(t, &fakeGatewayClient{})
	_, err := svc.StartHandoff(context.Background(), HandoffInput{
		DraftID: "d-1",
		Amount:  decimal.Zero,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleSuccessVerifiesAndReturnsDraft(t *testing.T) {
	client := &fakeGatewayClient{}
	svc, pending := newGatewayService(t, client)

	if err := pending.Save(context.Background(), "tok-1", PendingTransaction{
		DraftID:       "d-1",
		TransactionID: "txn-1",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err := svc.HandleSuccess(context.Background(), "tok-1", "pay-1")
	if err != nil {
		t.Fatalf("handle success: %v", err)
	}
	if result.DraftID != "d-1" || result.PaymentID != "pay-1" {
		t.Fatalf("result mismatch: %+v", result)
	}
	if result.ReceiptURL == "" {
		t.Fatalf("expected receipt url")
	}
	if len(client.verifies) != 1 || client.verifies[0] != "txn-1/pay-1" {
		t.Fatalf("unexpected verification calls: %v", client.verifies)
	}
}

func TestHandleSuccessConsumesTokenEvenWhenUnpaid(t *testing.T) {
	client := &fakeGatewayClient{verification: &Verification{Paid: false}}
	svc, pending := newGatewayService(t, client)

	if err := pending.Save(context.Background(), "tok-1", PendingTransaction{
		DraftID:       "d-1",
		TransactionID: "txn-1",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err := svc.HandleSuccess(context.Background(), "tok-1", "pay-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeGateway {
		t.Fatalf("expected gateway error, got %v", err)
	}

	// the token is burned regardless of the verification outcome
	_, err = pending.Consume(context.Background(), "tok-1")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("token should be consumed, got %v", err)
	}
}

func TestHandleSuccessUnknownToken(t *testing.T) {
	svc, _ := newGatewayService(t, &fakeGatewayClient{})
	_, err := svc.HandleSuccess(context.Background(), "unknown", "pay-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHandleCancelReturnsDraftID(t *testing.T) {
	svc, pending := newGatewayService(t, &fakeGatewayClient{})

	if err := pending.Save(context.Background(), "tok-1", PendingTransaction{
		DraftID:       "d-7",
		TransactionID: "txn-7",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	draftID, err := svc.HandleCancel(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("handle cancel: %v", err)
	}
	if draftID != "d-7" {
		t.Fatalf("expected draft d-7, got %s", draftID)
	}

	if _, err := svc.HandleCancel(context.Background(), "tok-1"); err == nil {
		t.Fatalf("cancel should consume the token")
	}
}

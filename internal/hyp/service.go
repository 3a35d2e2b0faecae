package hyp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/pkg/config"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

// HandoffInput is the draft state needed to open a hosted-payment session.
type HandoffInput struct {
	DraftID      string
	Amount       decimal.Decimal
	Description  string
	Installments int
	MemberName   string
	MemberEmail  string
	MemberPhone  string
}

// Handoff is the server-side result of starting a gateway session: the URL
// the caller redirects the browser to, plus the token the gateway carries
// back on the return routes.
type Handoff struct {
	Token         string `json:"token"`
	TransactionID string `json:"transactionId"`
	RedirectURL   string `json:"redirectUrl"`
}

// SuccessResult is the outcome of a verified gateway return.
type SuccessResult struct {
	DraftID    string
	PaymentID  string
	ReceiptURL string
}

// Service bridges checkout submissions to the HYP hosted-payment gateway.
type Service interface {
	StartHandoff(ctx context.Context, input HandoffInput) (*Handoff, error)
	HandleSuccess(ctx context.Context, token, paymentID string) (*SuccessResult, error)
	HandleCancel(ctx context.Context, token string) (draftID string, err error)
}

type service struct {
	client  Client
	pending *PendingStore
	cfg     config.HypConfig
	logg    *logger.Logger
}

// ServiceParams wires the gateway service dependencies.
type ServiceParams struct {
	Client  Client
	Pending *PendingStore
	Config  config.HypConfig
	Logger  *logger.Logger
}

// NewService builds the gateway service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if params.Pending == nil {
		return nil, fmt.Errorf("pending store required")
	}
	if params.Config.ReturnBaseURL == "" {
		return nil, fmt.Errorf("gateway return base url required")
	}
	return &service{
		client:  params.Client,
		pending: params.Pending,
		cfg:     params.Config,
		logg:    params.Logger,
	}, nil
}

func (s *service) StartHandoff(ctx context.Context, input HandoffInput) (*Handoff, error) {
	if input.DraftID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft id required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	token := uuid.NewString()
	session, err := s.client.CreateSession(ctx, SessionInput{
		Amount:       input.Amount,
		Description:  input.Description,
		Installments: input.Installments,
		MemberName:   input.MemberName,
		MemberEmail:  input.MemberEmail,
		MemberPhone:  input.MemberPhone,
		SuccessURL:   s.returnURL("/payment/success", token),
		CancelURL:    s.returnURL("/payment/cancel", token),
	})
	if err != nil {
		return nil, err
	}

	tx := PendingTransaction{
		DraftID:       input.DraftID,
		TransactionID: session.TransactionID,
	}
	if err := s.pending.Save(ctx, token, tx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing pending transaction")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"draft_id":       input.DraftID,
			"transaction_id": session.TransactionID,
		})
		s.logg.Info(logCtx, "gateway handoff started")
	}

	return &Handoff{
		Token:         token,
		TransactionID: session.TransactionID,
		RedirectURL:   session.RedirectURL,
	}, nil
}

// HandleSuccess consumes the pending transaction before verifying, so a
// refresh of the success route cannot re-trigger verification.
func (s *service) HandleSuccess(ctx context.Context, token, paymentID string) (*SuccessResult, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	tx, err := s.pending.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	verification, err := s.client.VerifyPayment(ctx, tx.TransactionID, paymentID)
	if err != nil {
		return nil, err
	}
	if !verification.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "payment not confirmed by gateway")
	}

	return &SuccessResult{
		DraftID:    tx.DraftID,
		PaymentID:  paymentID,
		ReceiptURL: verification.ReceiptURL,
	}, nil
}

func (s *service) HandleCancel(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}
	tx, err := s.pending.Consume(ctx, token)
	if err != nil {
		return "", err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithDraftID(ctx, tx.DraftID), "gateway payment cancelled")
	}
	return tx.DraftID, nil
}

func (s *service) returnURL(path, token string) string {
	return s.cfg.ReturnBaseURL + path + "?token=" + url.QueryEscape(token)
}

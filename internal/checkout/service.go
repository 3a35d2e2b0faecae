package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/internal/hyp"
	"github.com/fitcore-app/fitcore-backend/internal/members"
	"github.com/fitcore-app/fitcore-backend/internal/plans"
	"github.com/fitcore-app/fitcore-backend/internal/subscriptions"
	"github.com/fitcore-app/fitcore-backend/pkg/config"
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
	"github.com/fitcore-app/fitcore-backend/pkg/metrics"
	"github.com/fitcore-app/fitcore-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type gatewayStarter interface {
	StartHandoff(ctx context.Context, input hyp.HandoffInput) (*hyp.Handoff, error)
}

// Service drives the subscription checkout wizard.
type Service interface {
	CreateDraft(ctx context.Context, input CreateDraftInput) (*Draft, error)
	GetDraft(ctx context.Context, draftID string) (*Draft, error)
	UpdateDraft(ctx context.Context, draftID string, patch DraftPatch) (*Draft, error)
	Advance(ctx context.Context, draftID string) (*AdvanceResult, error)
	Retreat(ctx context.Context, draftID string) (*Draft, error)
	CancelDraft(ctx context.Context, draftID string) error
	CompleteGatewayPayment(ctx context.Context, draftID, paymentID string) (*SubmitResult, error)
	ReopenDraft(ctx context.Context, draftID string) error
}

// CreateDraftInput seeds a fresh draft.
type CreateDraftInput struct {
	MemberID  uuid.UUID
	StartDate *time.Time
}

// DraftPatch is a partial update to an open draft. Nil fields are left
// untouched.
type DraftPatch struct {
	PlanID         *string
	StartDate      *time.Time
	DurationMonths *int
	Quantity       *int
	UnitPrice      *decimal.Decimal
	TotalAmount    *decimal.Decimal
	DocumentType   *enums.DocumentType
	PaymentMethod  *enums.PaymentMethod
	Card           *CardDetails
	Check          *CheckDetails
	Bank           *BankDetails
	Installments   *int
	SendReceipt    *bool
	ReceiptEmail   *string
}

// AdvanceResult is the outcome of advancing the wizard: either a new step,
// a completed submission, or a gateway redirect.
type AdvanceResult struct {
	Draft      *Draft
	Submission *SubmitResult
	Handoff    *hyp.Handoff
}

type service struct {
	tx       txRunner
	plans    plans.Service
	members  members.Repository
	subs     subscriptions.Repository
	outbox   outboxPublisher
	drafts   *DraftStore
	gateway  gatewayStarter
	metrics  *metrics.CheckoutMetrics
	validate *validator.Validate
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// ServiceParams wires the checkout service dependencies.
type ServiceParams struct {
	Tx            txRunner
	Plans         plans.Service
	Members       members.Repository
	Subscriptions subscriptions.Repository
	Outbox        outboxPublisher
	Drafts        *DraftStore
	Gateway       gatewayStarter
	Metrics       *metrics.CheckoutMetrics
	Validator     *validator.Validate
	Config        config.CheckoutConfig
	Logger        *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Plans == nil {
		return nil, fmt.Errorf("plan service required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("member repository required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Drafts == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("gateway service required")
	}
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	return &service{
		tx:       params.Tx,
		plans:    params.Plans,
		members:  params.Members,
		subs:     params.Subscriptions,
		outbox:   params.Outbox,
		drafts:   params.Drafts,
		gateway:  params.Gateway,
		metrics:  params.Metrics,
		validate: params.Validator,
		cfg:      params.Config,
		logg:     params.Logger,
	}, nil
}

func (s *service) CreateDraft(ctx context.Context, input CreateDraftInput) (*Draft, error) {
	if input.MemberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	if _, err := s.members.FindByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	plan, err := s.plans.Default(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if input.StartDate != nil {
		start = input.StartDate.UTC()
	}

	now := time.Now().UTC()
	draft := &Draft{
		ID:             uuid.NewString(),
		MemberID:       input.MemberID,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		StartDate:      start,
		DurationMonths: 1,
		Quantity:       1,
		UnitPrice:      plan.PricePerMonth,
		DocumentType:   enums.DocumentTypeTaxInvoiceReceipt,
		PaymentMethod:  enums.PaymentMethodCash,
		Installments:   1,
		Step:           StepDetails,
		Status:         DraftStatusOpen,
		CreatedAt:      now,
	}
	draft.TotalAmount = ComputeTotal(draft.UnitPrice, draft.Quantity, draft.DurationMonths)

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing draft")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithDraftID(ctx, draft.ID), "checkout draft created")
	}
	return draft, nil
}

func (s *service) GetDraft(ctx context.Context, draftID string) (*Draft, error) {
	if draftID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft id required")
	}
	return s.drafts.Get(ctx, draftID)
}

func (s *service) UpdateDraft(ctx context.Context, draftID string, patch DraftPatch) (*Draft, error) {
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != DraftStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is not open for edits")
	}

	if err := s.applyPatch(ctx, draft, patch); err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing draft")
	}
	return draft, nil
}

func (s *service) applyPatch(ctx context.Context, draft *Draft, patch DraftPatch) error {
	driversChanged := false

	if patch.PlanID != nil && *patch.PlanID != draft.PlanID {
		plan, err := s.plans.GetByID(ctx, *patch.PlanID)
		if err != nil {
			return err
		}
		draft.PlanID = plan.ID
		draft.PlanName = plan.Name
		if patch.UnitPrice == nil {
			draft.UnitPrice = plan.PricePerMonth
		}
		driversChanged = true
	}

	if patch.StartDate != nil {
		draft.StartDate = patch.StartDate.UTC()
	}

	if patch.DurationMonths != nil {
		months, err := enums.ParseDurationMonths(*patch.DurationMonths)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		draft.DurationMonths = months
		driversChanged = true
	}

	if patch.Quantity != nil {
		if *patch.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		draft.Quantity = *patch.Quantity
		driversChanged = true
	}

	if patch.UnitPrice != nil {
		if patch.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		draft.UnitPrice = *patch.UnitPrice
		driversChanged = true
	}

	if patch.DocumentType != nil {
		if !patch.DocumentType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid document type")
		}
		draft.DocumentType = *patch.DocumentType
	}

	if patch.PaymentMethod != nil {
		if !patch.PaymentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		draft.PaymentMethod = *patch.PaymentMethod
	}

	if patch.Card != nil {
		card := *patch.Card
		card.Last4 = SanitizeLast4(card.Last4)
		draft.Card = &card
	}
	if patch.Check != nil {
		check := *patch.Check
		draft.Check = &check
	}
	if patch.Bank != nil {
		bank := *patch.Bank
		draft.Bank = &bank
	}

	if patch.Installments != nil {
		if *patch.Installments < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "installments must be at least 1")
		}
		draft.Installments = *patch.Installments
	}

	if patch.SendReceipt != nil {
		draft.SendReceipt = *patch.SendReceipt
	}
	if patch.ReceiptEmail != nil {
		draft.ReceiptEmail = patch.ReceiptEmail
	}

	// Recompute unless the operator has taken over the total. An explicit
	// total in the patch wins over everything and pins the override.
	if patch.TotalAmount != nil {
		if patch.TotalAmount.LessThanOrEqual(decimal.Zero) {
			return pkgerrors.New(pkgerrors.CodeValidation, "total must be positive")
		}
		draft.TotalAmount = *patch.TotalAmount
		draft.TotalOverridden = true
	} else if driversChanged && !draft.TotalOverridden {
		draft.TotalAmount = ComputeTotal(draft.UnitPrice, draft.Quantity, draft.DurationMonths)
	}

	if !draft.PaymentMethod.SupportsInstallments() {
		draft.Installments = 1
	} else if limit := MaxInstallmentsFor(draft.DurationMonths); draft.Installments > limit {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("installments limited to %d for this duration", limit))
	}

	if draft.EndDate().Before(draft.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date cannot precede start date")
	}
	return nil
}

func (s *service) Advance(ctx context.Context, draftID string) (*AdvanceResult, error) {
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != DraftStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is not open")
	}

	action, step, err := NextStep(draft.Step, draft.DocumentType)
	if err != nil {
		return nil, err
	}

	if action == ActionShowStep {
		draft.Step = step
		if err := s.drafts.Save(ctx, draft); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing draft")
		}
		return &AdvanceResult{Draft: draft}, nil
	}

	return s.submit(ctx, draft)
}

func (s *service) Retreat(ctx context.Context, draftID string) (*Draft, error) {
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != DraftStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is not open")
	}
	draft.Step = PreviousStep(draft.Step)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing draft")
	}
	return draft, nil
}

func (s *service) CancelDraft(ctx context.Context, draftID string) error {
	if draftID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft id required")
	}
	if err := s.drafts.Delete(ctx, draftID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discarding draft")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithDraftID(ctx, draftID), "checkout draft cancelled")
	}
	return nil
}

// ReopenDraft returns a draft to the open state after a cancelled gateway
// handoff so the operator can retry or switch payment method.
func (s *service) ReopenDraft(ctx context.Context, draftID string) error {
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return err
	}
	draft.Status = DraftStatusOpen
	draft.Hyp = nil
	return s.drafts.Save(ctx, draft)
}

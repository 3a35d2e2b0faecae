package checkout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/internal/hyp"
	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/outbox"
)

// SubmitResult is the persisted outcome of a completed checkout.
type SubmitResult struct {
	Subscription *models.Subscription
	ReceiptURL   string
}

type subscriptionCreatedPayload struct {
	SubscriptionID string `json:"subscriptionId"`
	MemberID       string `json:"memberId"`
	PlanID         string `json:"planId"`
	PlanName       string `json:"planName"`
	TotalAmount    string `json:"totalAmount"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	PaymentMethod  string `json:"paymentMethod"`
}

type receiptIssuedPayload struct {
	PaymentID      string `json:"paymentId"`
	SubscriptionID string `json:"subscriptionId"`
	MemberID       string `json:"memberId"`
	Email          string `json:"email"`
	DocumentType   string `json:"documentType"`
	Amount         string `json:"amount"`
}

// submit persists the draft exactly once. For the hosted gateway method a
// first pass with no gateway payment id opens the handoff instead of
// submitting.
func (s *service) submit(ctx context.Context, draft *Draft) (*AdvanceResult, error) {
	if err := s.validateForSubmit(ctx, draft); err != nil {
		return nil, err
	}

	if draft.PaymentMethod == enums.PaymentMethodHyp && (draft.Hyp == nil || draft.Hyp.PaymentID == "") {
		handoff, err := s.startHandoff(ctx, draft)
		if err != nil {
			return nil, err
		}
		return &AdvanceResult{Draft: draft, Handoff: handoff}, nil
	}

	acquired, err := s.drafts.AcquireSubmitGuard(ctx, draft.ID, s.cfg.SubmitGuardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring submit guard")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}

	draft.Status = DraftStatusSubmitting
	if err := s.drafts.Save(ctx, draft); err != nil {
		_ = s.drafts.ReleaseSubmitGuard(ctx, draft.ID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing draft")
	}

	started := time.Now()
	result, err := s.persist(ctx, draft)
	if err != nil {
		draft.Status = DraftStatusOpen
		if saveErr := s.drafts.Save(ctx, draft); saveErr != nil && s.logg != nil {
			s.logg.Error(ctx, "reopening draft after failed submit", saveErr)
		}
		_ = s.drafts.ReleaseSubmitGuard(ctx, draft.ID)
		s.metrics.IncSubmitFailure(draft.PaymentMethod.String())
		return nil, err
	}

	draft.Status = DraftStatusSubmitted
	if err := s.drafts.Delete(ctx, draft.ID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithDraftID(ctx, draft.ID), "discarding submitted draft failed")
	}

	s.metrics.ObserveSubmitDuration(draft.PaymentMethod.String(), time.Since(started))
	s.metrics.IncSubmitSuccess(draft.PaymentMethod.String())

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"draft_id":        draft.ID,
			"subscription_id": result.Subscription.ID.String(),
			"method":          draft.PaymentMethod.String(),
		})
		s.logg.Info(logCtx, "checkout submitted")
	}
	return &AdvanceResult{Draft: draft, Submission: result}, nil
}

func (s *service) validateForSubmit(ctx context.Context, draft *Draft) error {
	if draft.MemberID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "member is required")
	}
	if draft.PlanID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "plan is required")
	}
	if draft.TotalAmount.IsNegative() || draft.TotalAmount.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total must be positive")
	}
	if !draft.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var detail any
	switch draft.PaymentMethod {
	case enums.PaymentMethodCard:
		detail = draft.Card
	case enums.PaymentMethodCheck:
		detail = draft.Check
	case enums.PaymentMethodBank:
		detail = draft.Bank
	}
	if detail == nil {
		return nil
	}
	if err := s.validate.StructCtx(ctx, detail); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment details incomplete")
	}
	return nil
}

func (s *service) startHandoff(ctx context.Context, draft *Draft) (*hyp.Handoff, error) {
	member, err := s.members.FindByID(ctx, draft.MemberID)
	if err != nil {
		return nil, err
	}
	input := hyp.HandoffInput{
		DraftID:      draft.ID,
		Amount:       draft.TotalAmount,
		Description:  draft.description(),
		Installments: draft.Installments,
		MemberName:   member.FullName(),
	}
	if member.Email != nil {
		input.MemberEmail = *member.Email
	}
	if member.Phone != nil {
		input.MemberPhone = *member.Phone
	}

	handoff, err := s.gateway.StartHandoff(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing draft")
	}
	return handoff, nil
}

// CompleteGatewayPayment resumes a draft after a verified gateway return and
// submits it with the gateway payment id attached.
func (s *service) CompleteGatewayPayment(ctx context.Context, draftID, paymentID string) (*SubmitResult, error) {
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway payment id required")
	}
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.PaymentMethod != enums.PaymentMethodHyp {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is not a gateway payment")
	}
	draft.Hyp = &HypDetails{PaymentID: paymentID}

	result, err := s.submit(ctx, draft)
	if err != nil {
		return nil, err
	}
	if result.Submission == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway submission did not complete")
	}
	return result.Submission, nil
}

func (s *service) persist(ctx context.Context, draft *Draft) (*SubmitResult, error) {
	var created *models.Subscription

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		subsRepo := s.subs.WithTx(tx)

		sub := &models.Subscription{
			MemberID:       draft.MemberID,
			PlanID:         draft.PlanID,
			PlanName:       draft.PlanName,
			StartDate:      draft.StartDate,
			EndDate:        draft.EndDate(),
			DurationMonths: draft.DurationMonths,
			Quantity:       draft.Quantity,
			UnitPrice:      draft.UnitPrice,
			TotalAmount:    draft.TotalAmount,
			DocumentType:   draft.DocumentType,
			Status:         enums.SubscriptionStatusActive,
		}
		sub, err := subsRepo.Create(ctx, sub)
		if err != nil {
			return err
		}

		payment, err := s.buildPayment(draft, sub)
		if err != nil {
			return err
		}
		payment, err = subsRepo.CreatePayment(ctx, payment)
		if err != nil {
			return err
		}
		sub.Payments = []models.Payment{*payment}

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventSubscriptionCreated,
			AggregateType: enums.OutboxAggregateSubscription,
			AggregateID:   sub.ID,
			Data: subscriptionCreatedPayload{
				SubscriptionID: sub.ID.String(),
				MemberID:       sub.MemberID.String(),
				PlanID:         sub.PlanID,
				PlanName:       sub.PlanName,
				TotalAmount:    sub.TotalAmount.StringFixed(2),
				StartDate:      sub.StartDate.Format(time.RFC3339),
				EndDate:        sub.EndDate.Format(time.RFC3339),
				PaymentMethod:  payment.Method.String(),
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		if draft.SendReceipt && draft.ReceiptEmail != nil && *draft.ReceiptEmail != "" {
			receiptEvent := outbox.DomainEvent{
				EventType:     enums.OutboxEventReceiptIssued,
				AggregateType: enums.OutboxAggregatePayment,
				AggregateID:   payment.ID,
				Data: receiptIssuedPayload{
					PaymentID:      payment.ID.String(),
					SubscriptionID: sub.ID.String(),
					MemberID:       sub.MemberID.String(),
					Email:          *draft.ReceiptEmail,
					DocumentType:   payment.DocumentType.String(),
					Amount:         payment.Amount.StringFixed(2),
				},
				Version: 1,
			}
			if err := s.outbox.Emit(ctx, tx, receiptEvent); err != nil {
				return err
			}
		}

		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Subscription: created}, nil
}

// buildPayment snapshots the active payment-method detail record. Detail
// records for inactive methods never leave the draft.
func (s *service) buildPayment(draft *Draft, sub *models.Subscription) (*models.Payment, error) {
	payment := &models.Payment{
		SubscriptionID: sub.ID,
		MemberID:       sub.MemberID,
		Method:         draft.PaymentMethod,
		Amount:         draft.TotalAmount,
		Installments:   draft.Installments,
		DocumentType:   draft.DocumentType,
		SendReceipt:    draft.SendReceipt,
		ReceiptEmail:   draft.ReceiptEmail,
	}
	if amount := draft.InstallmentAmount(); amount != nil {
		payment.InstallmentAmount = amount
	}

	var detail any
	switch draft.PaymentMethod {
	case enums.PaymentMethodCard:
		detail = draft.Card
	case enums.PaymentMethodCheck:
		detail = draft.Check
	case enums.PaymentMethodBank:
		detail = draft.Bank
	case enums.PaymentMethodHyp:
		detail = draft.Hyp
		if draft.Hyp != nil {
			id := draft.Hyp.PaymentID
			payment.HypPaymentID = &id
		}
	}
	if detail != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			return nil, err
		}
		payment.Details = json.RawMessage(raw)
	}
	return payment, nil
}

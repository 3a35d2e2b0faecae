package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/api/responses"
	"github.com/fitcore-app/fitcore-backend/api/validators"
	checkoutsvc "github.com/fitcore-app/fitcore-backend/internal/checkout"
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

// CreateCheckoutDraft opens a fresh wizard draft for a member.
func CreateCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload createDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.CreateDraft(r.Context(), checkoutsvc.CreateDraftInput{
			MemberID:  payload.MemberID,
			StartDate: payload.StartDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDraftResponse(draft))
	}
}

// GetCheckoutDraft returns the current draft state.
func GetCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := svc.GetDraft(r.Context(), chi.URLParam(r, "draftId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(draft))
	}
}

// UpdateCheckoutDraft applies a partial edit to an open draft.
func UpdateCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch, err := payload.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.UpdateDraft(r.Context(), chi.URLParam(r, "draftId"), patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(draft))
	}
}

// AdvanceCheckoutDraft moves the wizard forward; at the terminal step it
// either submits or hands off to the payment gateway.
func AdvanceCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Advance(r.Context(), chi.URLParam(r, "draftId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAdvanceResponse(result))
	}
}

// RetreatCheckoutDraft moves the wizard back one step.
func RetreatCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := svc.Retreat(r.Context(), chi.URLParam(r, "draftId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(draft))
	}
}

// CancelCheckoutDraft discards the draft.
func CancelCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CancelDraft(r.Context(), chi.URLParam(r, "draftId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

type createDraftRequest struct {
	MemberID  uuid.UUID  `json:"member_id" validate:"required"`
	StartDate *time.Time `json:"start_date,omitempty"`
}

type cardDetailsRequest struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	HolderName string `json:"holder_name"`
}

type checkDetailsRequest struct {
	Number   string     `json:"number"`
	Date     *time.Time `json:"date,omitempty"`
	BankName string     `json:"bank_name"`
}

type bankDetailsRequest struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Branch        string `json:"branch"`
	Reference     string `json:"reference"`
}

type updateDraftRequest struct {
	PlanID         *string              `json:"plan_id,omitempty"`
	StartDate      *time.Time           `json:"start_date,omitempty"`
	DurationMonths *int                 `json:"duration_months,omitempty"`
	Quantity       *int                 `json:"quantity,omitempty"`
	UnitPrice      *string              `json:"unit_price,omitempty"`
	TotalAmount    *string              `json:"total_amount,omitempty"`
	DocumentType   *string              `json:"document_type,omitempty"`
	PaymentMethod  *string              `json:"payment_method,omitempty"`
	Card           *cardDetailsRequest  `json:"card,omitempty"`
	Check          *checkDetailsRequest `json:"check,omitempty"`
	Bank           *bankDetailsRequest  `json:"bank,omitempty"`
	Installments   *int                 `json:"installments,omitempty"`
	SendReceipt    *bool                `json:"send_receipt,omitempty"`
	ReceiptEmail   *string              `json:"receipt_email,omitempty" validate:"omitempty,email"`
}

func (req updateDraftRequest) toPatch() (checkoutsvc.DraftPatch, error) {
	patch := checkoutsvc.DraftPatch{
		PlanID:         req.PlanID,
		StartDate:      req.StartDate,
		DurationMonths: req.DurationMonths,
		Quantity:       req.Quantity,
		Installments:   req.Installments,
		SendReceipt:    req.SendReceipt,
		ReceiptEmail:   req.ReceiptEmail,
	}

	if req.UnitPrice != nil {
		value, err := decimal.NewFromString(*req.UnitPrice)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit price")
		}
		patch.UnitPrice = &value
	}
	if req.TotalAmount != nil {
		value, err := decimal.NewFromString(*req.TotalAmount)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, "invalid total amount")
		}
		patch.TotalAmount = &value
	}
	if req.DocumentType != nil {
		value, err := enums.ParseDocumentType(*req.DocumentType)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		patch.DocumentType = &value
	}
	if req.PaymentMethod != nil {
		value, err := enums.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		patch.PaymentMethod = &value
	}
	if req.Card != nil {
		patch.Card = &checkoutsvc.CardDetails{
			Last4:      checkoutsvc.SanitizeLast4(req.Card.Number),
			Expiry:     req.Card.Expiry,
			HolderName: req.Card.HolderName,
		}
	}
	if req.Check != nil {
		patch.Check = &checkoutsvc.CheckDetails{
			Number:   req.Check.Number,
			Date:     req.Check.Date,
			BankName: req.Check.BankName,
		}
	}
	if req.Bank != nil {
		patch.Bank = &checkoutsvc.BankDetails{
			AccountNumber: req.Bank.AccountNumber,
			BankName:      req.Bank.BankName,
			Branch:        req.Bank.Branch,
			Reference:     req.Bank.Reference,
		}
	}
	return patch, nil
}

type draftResponse struct {
	ID                string  `json:"id"`
	MemberID          string  `json:"member_id"`
	PlanID            string  `json:"plan_id"`
	PlanName          string  `json:"plan_name"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	DurationMonths    int     `json:"duration_months"`
	Quantity          int     `json:"quantity"`
	UnitPrice         string  `json:"unit_price"`
	TotalAmount       string  `json:"total_amount"`
	TotalOverridden   bool    `json:"total_overridden"`
	DocumentType      string  `json:"document_type"`
	PaymentMethod     string  `json:"payment_method"`
	Installments      int     `json:"installments"`
	InstallmentAmount *string `json:"installment_amount,omitempty"`
	MaxInstallments   int     `json:"max_installments"`
	SendReceipt       bool    `json:"send_receipt"`
	ReceiptEmail      *string `json:"receipt_email,omitempty"`
	Step              int     `json:"step"`
	Status            string  `json:"status"`
}

func newDraftResponse(draft *checkoutsvc.Draft) draftResponse {
	if draft == nil {
		return draftResponse{}
	}
	resp := draftResponse{
		ID:              draft.ID,
		MemberID:        draft.MemberID.String(),
		PlanID:          draft.PlanID,
		PlanName:        draft.PlanName,
		StartDate:       draft.StartDate.Format("2006-01-02"),
		EndDate:         draft.EndDate().Format("2006-01-02"),
		DurationMonths:  draft.DurationMonths,
		Quantity:        draft.Quantity,
		UnitPrice:       draft.UnitPrice.StringFixed(2),
		TotalAmount:     draft.TotalAmount.StringFixed(2),
		TotalOverridden: draft.TotalOverridden,
		DocumentType:    draft.DocumentType.String(),
		PaymentMethod:   draft.PaymentMethod.String(),
		Installments:    draft.Installments,
		MaxInstallments: checkoutsvc.MaxInstallmentsFor(draft.DurationMonths),
		SendReceipt:     draft.SendReceipt,
		ReceiptEmail:    draft.ReceiptEmail,
		Step:            draft.Step,
		Status:          string(draft.Status),
	}
	if amount := draft.InstallmentAmount(); amount != nil {
		v := amount.StringFixed(2)
		resp.InstallmentAmount = &v
	}
	return resp
}

type advanceResponse struct {
	Draft        *draftResponse        `json:"draft,omitempty"`
	Subscription *subscriptionResponse `json:"subscription,omitempty"`
	Handoff      *handoffResponse      `json:"handoff,omitempty"`
}

type handoffResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func newAdvanceResponse(result *checkoutsvc.AdvanceResult) advanceResponse {
	if result == nil {
		return advanceResponse{}
	}
	resp := advanceResponse{}
	if result.Handoff != nil {
		resp.Handoff = &handoffResponse{
			Token:       result.Handoff.Token,
			RedirectURL: result.Handoff.RedirectURL,
		}
	}
	if result.Submission != nil && result.Submission.Subscription != nil {
		sub := newSubscriptionResponse(*result.Submission.Subscription)
		resp.Subscription = &sub
		return resp
	}
	if result.Draft != nil && resp.Handoff == nil {
		draft := newDraftResponse(result.Draft)
		resp.Draft = &draft
	}
	return resp
}

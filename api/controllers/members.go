package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fitcore-app/fitcore-backend/api/responses"
	"github.com/fitcore-app/fitcore-backend/internal/members"
	"github.com/fitcore-app/fitcore-backend/internal/subscriptions"
	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

// GetMember returns a single member's profile.
func GetMember(repo members.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member repository unavailable"))
			return
		}

		memberID, err := memberIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := repo.FindByID(r.Context(), memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMemberResponse(member))
	}
}

// ListMemberSubscriptions returns a member's subscription history with
// payments.
func ListMemberSubscriptions(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		memberID, err := memberIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByMember(r.Context(), memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]subscriptionResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newSubscriptionResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

func memberIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "memberId")
	memberID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid member id")
	}
	return memberID, nil
}

type memberResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	FullName  string  `json:"full_name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Active    bool    `json:"active"`
}

func newMemberResponse(member *models.Member) memberResponse {
	if member == nil {
		return memberResponse{}
	}
	return memberResponse{
		ID:        member.ID.String(),
		FirstName: member.FirstName,
		LastName:  member.LastName,
		FullName:  member.FullName(),
		Email:     member.Email,
		Phone:     member.Phone,
		Address:   member.Address,
		Active:    member.Active,
	}
}

type subscriptionResponse struct {
	ID             string            `json:"id"`
	PlanID         string            `json:"plan_id"`
	PlanName       string            `json:"plan_name"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	DurationMonths int               `json:"duration_months"`
	Quantity       int               `json:"quantity"`
	UnitPrice      string            `json:"unit_price"`
	TotalAmount    string            `json:"total_amount"`
	DocumentType   string            `json:"document_type"`
	Status         string            `json:"status"`
	Payments       []paymentResponse `json:"payments"`
}

type paymentResponse struct {
	ID                string  `json:"id"`
	Method            string  `json:"method"`
	Amount            string  `json:"amount"`
	Installments      int     `json:"installments"`
	InstallmentAmount *string `json:"installment_amount,omitempty"`
	DocumentType      string  `json:"document_type"`
	HypPaymentID      *string `json:"hyp_payment_id,omitempty"`
}

func newSubscriptionResponse(sub models.Subscription) subscriptionResponse {
	payments := make([]paymentResponse, 0, len(sub.Payments))
	for _, payment := range sub.Payments {
		resp := paymentResponse{
			ID:           payment.ID.String(),
			Method:       payment.Method.String(),
			Amount:       payment.Amount.StringFixed(2),
			Installments: payment.Installments,
			DocumentType: payment.DocumentType.String(),
			HypPaymentID: payment.HypPaymentID,
		}
		if payment.InstallmentAmount != nil {
			v := payment.InstallmentAmount.StringFixed(2)
			resp.InstallmentAmount = &v
		}
		payments = append(payments, resp)
	}
	return subscriptionResponse{
		ID:             sub.ID.String(),
		PlanID:         sub.PlanID,
		PlanName:       sub.PlanName,
		StartDate:      sub.StartDate.Format("2006-01-02"),
		EndDate:        sub.EndDate.Format("2006-01-02"),
		DurationMonths: sub.DurationMonths,
		Quantity:       sub.Quantity,
		UnitPrice:      sub.UnitPrice.StringFixed(2),
		TotalAmount:    sub.TotalAmount.StringFixed(2),
		DocumentType:   sub.DocumentType.String(),
		Status:         sub.Status.String(),
		Payments:       payments,
	}
}

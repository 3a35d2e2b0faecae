package controllers

import (
	"net/http"

	"github.com/fitcore-app/fitcore-backend/api/responses"
	checkoutsvc "github.com/fitcore-app/fitcore-backend/internal/checkout"
	"github.com/fitcore-app/fitcore-backend/internal/hyp"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
	"github.com/fitcore-app/fitcore-backend/pkg/metrics"
)

// PaymentSuccess is the gateway's success return route. It consumes the
// pending transaction, verifies the payment, and finalizes the draft.
func PaymentSuccess(gatewaySvc hyp.Service, checkoutSvc checkoutsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		paymentID := r.URL.Query().Get("paymentId")

		result, err := gatewaySvc.HandleSuccess(r.Context(), token, paymentID)
		if err != nil {
			m.IncGatewayResult("failed")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := checkoutSvc.CompleteGatewayPayment(r.Context(), result.DraftID, result.PaymentID)
		if err != nil {
			m.IncGatewayResult("failed")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncGatewayResult("success")

		payload := paymentResultResponse{
			Status:       "success",
			Subscription: nil,
			ReceiptURL:   result.ReceiptURL,
		}
		if submission.Subscription != nil {
			sub := newSubscriptionResponse(*submission.Subscription)
			payload.Subscription = &sub
		}
		responses.WriteSuccess(w, payload)
	}
}

// PaymentCancel is the gateway's cancel return route. The pending
// transaction is removed whether or not the draft still exists, so a refresh
// cannot replay the flow.
func PaymentCancel(gatewaySvc hyp.Service, checkoutSvc checkoutsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")

		draftID, err := gatewaySvc.HandleCancel(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncGatewayResult("cancel")

		if err := checkoutSvc.ReopenDraft(r.Context(), draftID); err != nil {
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, paymentResultResponse{Status: "cancelled", DraftID: draftID})
	}
}

type paymentResultResponse struct {
	Status       string                `json:"status"`
	DraftID      string                `json:"draft_id,omitempty"`
	Subscription *subscriptionResponse `json:"subscription,omitempty"`
	ReceiptURL   string                `json:"receipt_url,omitempty"`
}

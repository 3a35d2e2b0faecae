package controllers

import (
	"net/http"

	"github.com/fitcore-app/fitcore-backend/api/responses"
	"github.com/fitcore-app/fitcore-backend/internal/plans"
	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

// ListPlans returns the active membership plans in display order.
func ListPlans(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]planResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newPlanResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

type planResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PricePerMonth string   `json:"price_per_month"`
	Features      []string `json:"features,omitempty"`
}

func newPlanResponse(plan models.MembershipPlan) planResponse {
	return planResponse{
		ID:            plan.ID,
		Name:          plan.Name,
		PricePerMonth: plan.PricePerMonth.StringFixed(2),
		Features:      plan.Features,
	}
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fitcore-app/fitcore-backend/api/responses"
	"github.com/fitcore-app/fitcore-backend/api/validators"
	"github.com/fitcore-app/fitcore-backend/internal/checkins"
	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

// CreateCheckIn records a front-desk entry for a member.
func CreateCheckIn(svc checkins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "check-in service unavailable"))
			return
		}

		var payload checkInRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		at := time.Now().UTC()
		if payload.CheckedInAt != nil {
			at = payload.CheckedInAt.UTC()
		}

		row, err := svc.CheckIn(r.Context(), payload.MemberID, at)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckInResponse(row))
	}
}

// ListCheckIns returns recent check-ins for a member.
func ListCheckIns(svc checkins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("member_id")
		memberID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid member id"))
			return
		}

		limit := 0
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			limit, _ = strconv.Atoi(rawLimit)
		}

		rows, err := svc.ListByMember(r.Context(), memberID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]checkInResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newCheckInResponse(&row))
		}
		responses.WriteSuccess(w, out)
	}
}

type checkInRequest struct {
	MemberID    uuid.UUID  `json:"member_id" validate:"required"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

type checkInResponse struct {
	ID             string `json:"id"`
	MemberID       string `json:"member_id"`
	SubscriptionID string `json:"subscription_id"`
	CheckedInAt    string `json:"checked_in_at"`
}

func newCheckInResponse(row *models.CheckIn) checkInResponse {
	if row == nil {
		return checkInResponse{}
	}
	return checkInResponse{
		ID:             row.ID.String(),
		MemberID:       row.MemberID.String(),
		SubscriptionID: row.SubscriptionID.String(),
		CheckedInAt:    row.CheckedInAt.Format(time.RFC3339),
	}
}

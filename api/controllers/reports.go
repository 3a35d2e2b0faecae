package controllers

import (
	"net/http"
	"time"

	"github.com/fitcore-app/fitcore-backend/api/responses"
	"github.com/fitcore-app/fitcore-backend/internal/reports"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
)

// RevenueReport aggregates payments by method and document type for a date
// range. Dates are inclusive-from, exclusive-to, formatted YYYY-MM-DD.
func RevenueReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		from, err := parseDateParam(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseDateParam(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Revenue(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRevenueResponse(summary))
	}
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, name+" must be formatted YYYY-MM-DD")
	}
	return parsed, nil
}

type revenueRowResponse struct {
	Method       string `json:"method"`
	DocumentType string `json:"document_type"`
	Payments     int64  `json:"payments"`
	Total        string `json:"total"`
}

type revenueResponse struct {
	From       string               `json:"from"`
	To         string               `json:"to"`
	GrandTotal string               `json:"grand_total"`
	Rows       []revenueRowResponse `json:"rows"`
}

func newRevenueResponse(summary *reports.RevenueSummary) revenueResponse {
	if summary == nil {
		return revenueResponse{}
	}
	rows := make([]revenueRowResponse, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		rows = append(rows, revenueRowResponse{
			Method:       row.Method,
			DocumentType: row.DocumentType,
			Payments:     row.Payments,
			Total:        row.Total.StringFixed(2),
		})
	}
	return revenueResponse{
		From:       summary.From.Format("2006-01-02"),
		To:         summary.To.Format("2006-01-02"),
		GrandTotal: summary.GrandTotal.StringFixed(2),
		Rows:       rows,
	}
}

package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// RevenueSummary is the revenue report for a date range.
type RevenueSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Rows       []RevenueRow    `json:"rows"`
}

// Service produces back-office reports.
type Service interface {
	Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
}

type service struct {
	repo Repository
}

// ServiceParams wires the report service dependencies.
type ServiceParams struct {
	Repo Repository
}

// NewService builds the report service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	return &service{repo: params.Repo}, nil
}

// Revenue aggregates payments in [from, to) grouped by payment method and
// document type.
func (s *service) Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required")
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}

	rows, err := s.repo.RevenueBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
	}
	return &RevenueSummary{
		From:       from,
		To:         to,
		GrandTotal: total,
		Rows:       rows,
	}, nil
}

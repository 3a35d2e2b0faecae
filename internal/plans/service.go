package plans

import (
	"context"
	"fmt"

	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// Service exposes plan lookups for the API and the checkout flow.
type Service interface {
	List(ctx context.Context) ([]models.MembershipPlan, error)
	GetByID(ctx context.Context, id string) (*models.MembershipPlan, error)
	// Default returns the plan that seeds new checkout drafts: the first
	// active plan in display order.
	Default(ctx context.Context) (*models.MembershipPlan, error)
}

type service struct {
	repo Repository
}

// ServiceParams wires the plan service dependencies.
type ServiceParams struct {
	Repo Repository
}

// NewService builds the plan service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("plan repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.MembershipPlan, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) GetByID(ctx context.Context, id string) (*models.MembershipPlan, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Default(ctx context.Context) (*models.MembershipPlan, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active plans configured")
	}
	return &rows[0], nil
}

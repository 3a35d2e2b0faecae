package subscriptions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fitcore-app/fitcore-backend/internal/members"
	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// Service exposes subscription history lookups.
type Service interface {
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
}

type service struct {
	repo       Repository
	memberRepo members.Repository
}

// ServiceParams wires the subscription service dependencies.
type ServiceParams struct {
	Repo       Repository
	MemberRepo members.Repository
}

// NewService builds the subscription service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	if params.MemberRepo == nil {
		return nil, fmt.Errorf("member repository required")
	}
	return &service{repo: params.Repo, memberRepo: params.MemberRepo}, nil
}

func (s *service) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Subscription, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	if _, err := s.memberRepo.FindByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}
	return s.repo.FindByID(ctx, id)
}

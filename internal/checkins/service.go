package checkins

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore-app/fitcore-backend/internal/members"
	"github.com/fitcore-app/fitcore-backend/internal/subscriptions"
	"github.com/fitcore-app/fitcore-backend/pkg/db/models"
	"github.com/fitcore-app/fitcore-backend/pkg/enums"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
	"github.com/fitcore-app/fitcore-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service records and lists member check-ins.
type Service interface {
	CheckIn(ctx context.Context, memberID uuid.UUID, at time.Time) (*models.CheckIn, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]models.CheckIn, error)
}

type checkInRecordedPayload struct {
	CheckInID      string `json:"checkInId"`
	MemberID       string `json:"memberId"`
	SubscriptionID string `json:"subscriptionId"`
	CheckedInAt    string `json:"checkedInAt"`
}

type service struct {
	tx      txRunner
	repo    Repository
	members members.Repository
	subs    subscriptions.Repository
	outbox  outboxPublisher
	logg    *logger.Logger
}

// ServiceParams wires the check-in service dependencies.
type ServiceParams struct {
	Tx            txRunner
	Repo          Repository
	Members       members.Repository
	Subscriptions subscriptions.Repository
	Outbox        outboxPublisher
	Logger        *logger.Logger
}

// NewService builds the check-in service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("check-in repository required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("member repository required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:      params.Tx,
		repo:    params.Repo,
		members: params.Members,
		subs:    params.Subscriptions,
		outbox:  params.Outbox,
		logg:    params.Logger,
	}, nil
}

// CheckIn records an entry. The member must hold a subscription covering the
// check-in instant.
func (s *service) CheckIn(ctx context.Context, memberID uuid.UUID, at time.Time) (*models.CheckIn, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "member is inactive")
	}

	sub, err := s.subs.FindActiveForMember(ctx, memberID, at)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "member has no active subscription")
		}
		return nil, err
	}

	var created *models.CheckIn
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.Create(ctx, &models.CheckIn{
			MemberID:       memberID,
			SubscriptionID: sub.ID,
			CheckedInAt:    at,
		})
		if err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventCheckInRecorded,
			AggregateType: enums.OutboxAggregateCheckIn,
			AggregateID:   row.ID,
			Data: checkInRecordedPayload{
				CheckInID:      row.ID.String(),
				MemberID:       memberID.String(),
				SubscriptionID: sub.ID.String(),
				CheckedInAt:    at.Format(time.RFC3339),
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithMemberID(ctx, memberID.String()), "member checked in")
	}
	return created, nil
}

func (s *service) ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]models.CheckIn, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	return s.repo.ListByMember(ctx, memberID, limit)
}

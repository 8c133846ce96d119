package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type billsStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	UpdateBills(ctx context.Context, id string, state models.BillsState, comment *string, at time.Time) error
}

// BillsService tracks post-event bill processing. Only the room office
// advances the track, and only for approved, budgeted events that have
// already ended.
type BillsService struct {
	repo   billsStore
	logger *zap.Logger
	now    func() time.Time
}

// NewBillsService constructs the service.
func NewBillsService(repo billsStore, logger *zap.Logger) *BillsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillsService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// UpdateStatus moves an event's bill track to the requested state.
func (s *BillsService) UpdateStatus(ctx context.Context, actor models.Actor, eventID string, req dto.UpdateBillsRequest) (*models.Event, error) {
	if actor.Role != models.RoleRoomOffice {
		return nil, appErrors.ErrForbidden
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	now := s.now()
	switch {
	case event.State != models.StateApproved:
		return nil, appErrors.Clone(appErrors.ErrValidation, "bills apply to approved events only")
	case event.EndAt.After(now):
		return nil, appErrors.Clone(appErrors.ErrValidation, "bills can only be filed after the event has ended")
	case len(event.Budget) == 0:
		return nil, appErrors.Clone(appErrors.ErrValidation, "event has no budget to process bills for")
	}

	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}
	if err := s.repo.UpdateBills(ctx, eventID, req.State, comment, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The event fell out of Approved between the read and the write.
			return nil, appErrors.ErrConflict
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	event.BillsState = req.State
	event.BillsComment = comment
	event.BillsUpdatedAt = &now
	s.logger.Info("bills status updated",
		zap.String("event_id", eventID),
		zap.String("state", string(req.State)),
		zap.String("actor", actor.ID),
	)
	return event, nil
}

// ListStatuses summarises the bill track of every finished, budgeted,
// approved event for the finance overview.
func (s *BillsService) ListStatuses(ctx context.Context, actor models.Actor) ([]dto.BillsStatusEntry, error) {
	switch actor.Role {
	case models.RoleCouncil, models.RoleFinance, models.RoleRoomOffice:
	default:
		return nil, appErrors.ErrForbidden
	}

	now := s.now()
	events, err := s.repo.List(ctx, models.EventFilter{
		States:        []models.EventState{models.StateApproved},
		RequireBudget: true,
		EndedBefore:   &now,
	})
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	entries := make([]dto.BillsStatusEntry, 0, len(events))
	for _, event := range events {
		entry := dto.BillsStatusEntry{
			EventID:   event.ID,
			EventName: event.Name,
			ClubID:    event.ClubID,
			State:     event.BillsState,
			Comment:   event.BillsComment,
		}
		if event.BillsUpdatedAt != nil {
			formatted := event.BillsUpdatedAt.Format(time.RFC3339)
			entry.UpdatedAt = &formatted
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

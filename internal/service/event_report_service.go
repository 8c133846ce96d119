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

type eventReportStore interface {
	Create(ctx context.Context, report *models.EventReport) error
	GetByEvent(ctx context.Context, eventID string) (*models.EventReport, error)
}

type reportEventReader interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

// EventReportService handles the post-event writeup a club files once its
// approved event has ended. One report per event; the submitting member must
// resolve through the directory, like a point of contact.
type EventReportService struct {
	reports eventReportStore
	events  reportEventReader
	members memberDirectory
	logger  *zap.Logger
	now     func() time.Time
}

// NewEventReportService constructs the service.
func NewEventReportService(reports eventReportStore, events reportEventReader, members memberDirectory, logger *zap.Logger) *EventReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventReportService{
		reports: reports,
		events:  events,
		members: members,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit files the report for an event. Only the owning club may file one,
// only for an approved event that has already ended, and only once.
func (s *EventReportService) Submit(ctx context.Context, actor models.Actor, eventID string, req dto.SubmitEventReportRequest) (*models.EventReport, error) {
	if actor.Role != models.RoleClub {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only clubs file event reports")
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsClub(event.ClubID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning club may file the report")
	}
	if event.State != models.StateApproved {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reports are filed for approved events only")
	}
	if event.EndAt.After(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the event has not ended yet")
	}

	if _, err := s.reports.GetByEvent(ctx, eventID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a report was already filed for this event")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	if _, err := s.members.GetMember(ctx, event.ClubID, req.SubmittedBy); err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound.Code) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "the submitting member does not belong to the club")
		}
		return nil, err
	}

	report := &models.EventReport{
		EventID:     event.ID,
		Summary:     req.Summary,
		Attendance:  req.Attendance,
		PhotosLink:  req.PhotosLink,
		Feedback:    req.Feedback,
		SubmittedBy: req.SubmittedBy,
		SubmittedAt: s.now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	s.logger.Info("event report filed",
		zap.String("event_id", event.ID),
		zap.String("club_id", event.ClubID),
		zap.String("submitted_by", req.SubmittedBy),
	)
	return report, nil
}

// Get returns the report for an event. Council and the room office read any
// report; a club reads only reports of events it owns or collaborated on.
func (s *EventReportService) Get(ctx context.Context, actor models.Actor, eventID string) (*models.EventReport, error) {
	switch actor.Role {
	case models.RoleCouncil, models.RoleRoomOffice:
	case models.RoleClub:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "event reports are not visible to this role")
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleClub && !actor.OwnsClub(event.ClubID) && !collaborates(event, actor.ID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "the report belongs to another club")
	}

	report, err := s.reports.GetByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event report not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return report, nil
}

func (s *EventReportService) getEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return event, nil
}

func collaborates(event *models.Event, clubID string) bool {
	for _, collab := range event.CollabClubIDs {
		if collab == clubID {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/directory"
	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type eventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetByCode(ctx context.Context, code string) (*models.Event, error)
	UpdateDetails(ctx context.Context, event *models.Event) error
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	CountClubEvents(ctx context.Context, clubID string, start, end time.Time) (int, error)
	ReassignClub(ctx context.Context, oldClubID, newClubID string) (int64, error)
}

type clubDirectory interface {
	GetClub(ctx context.Context, clubID string) (*directory.Club, error)
}

type memberDirectory interface {
	GetMember(ctx context.Context, clubID, userID string) (*directory.Member, error)
}

// EventService owns event creation and descriptive edits. Status changes
// never pass through here; those belong to the WorkflowService.
type EventService struct {
	repo             eventStore
	clubs            clubDirectory
	members          memberDirectory
	cache            cacheInvalidator
	interSecret      string
	fiscalStartMonth int
	logger           *zap.Logger
	now              func() time.Time
}

// NewEventService constructs the service.
func NewEventService(repo eventStore, clubs clubDirectory, members memberDirectory, cache cacheInvalidator, interSecret string, fiscalStartMonth int, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fiscalStartMonth < 1 || fiscalStartMonth > 12 {
		fiscalStartMonth = 4
	}
	return &EventService{
		repo:             repo,
		clubs:            clubs,
		members:          members,
		cache:            cache,
		interSecret:      interSecret,
		fiscalStartMonth: fiscalStartMonth,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a new event in the Incomplete state. The owning club or
// the council may create; the club and its point of contact must both
// resolve through the directory before anything is persisted.
func (s *EventService) Create(ctx context.Context, actor models.Actor, req dto.CreateEventRequest) (*models.Event, error) {
	if !actor.OwnsClub(req.ClubID) && actor.Role != models.RoleCouncil {
		return nil, appErrors.ErrForbidden
	}
	if err := validateInterval(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}
	if err := validateRooms(req.Locations, req.AltLocations); err != nil {
		return nil, err
	}

	club, err := s.clubs.GetClub(ctx, req.ClubID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound.Code) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, err
	}
	if err := s.resolvePOC(ctx, req.ClubID, req.POC); err != nil {
		return nil, err
	}

	code, err := s.allocateCode(ctx, req.ClubID, req.StartAt)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Code:               code,
		ClubID:             req.ClubID,
		CollabClubIDs:      req.CollabClubIDs,
		Category:           club.Category,
		Name:               req.Name,
		Description:        req.Description,
		Mode:               models.EventMode(req.Mode),
		Audience:           req.Audience,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		Locations:          models.RoomList(req.Locations),
		AltLocations:       models.RoomList(req.AltLocations),
		OtherLocation:      req.OtherLocation,
		OtherAltLocation:   req.OtherAltLocation,
		POC:                req.POC,
		Link:               req.Link,
		Equipment:          req.Equipment,
		Additional:         req.Additional,
		Population:         req.Population,
		ExternalPopulation: req.ExternalPopulation,
		Budget:             models.BudgetList(req.Budget),
		Sponsors:           models.SponsorList(req.Sponsors),
		EventStatus:        models.EventStatus{State: models.StateIncomplete},
	}
	if event.Mode == "" {
		event.Mode = models.ModeOffline
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	s.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("code", event.Code),
		zap.String("club_id", event.ClubID),
	)
	return event, nil
}

// Edit applies a partial update. Clubs may only edit while the event is
// still Incomplete; the council and the room office may edit at any point.
// Edits never touch the approval status.
func (s *EventService) Edit(ctx context.Context, actor models.Actor, eventID string, req dto.EditEventRequest) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.Role == models.RoleCouncil, actor.Role == models.RoleRoomOffice:
	case actor.OwnsClub(event.ClubID):
		if event.State != models.StateIncomplete {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "a submitted event can no longer be edited by its club")
		}
	default:
		return nil, appErrors.ErrForbidden
	}

	applyEdit(event, req)
	if err := validateInterval(event.StartAt, event.EndAt); err != nil {
		return nil, err
	}
	if err := validateRooms(event.Locations, event.AltLocations); err != nil {
		return nil, err
	}
	if req.POC != nil {
		if err := s.resolvePOC(ctx, event.ClubID, event.POC); err != nil {
			return nil, err
		}
	}

	actorID := actor.ID
	now := s.now()
	event.LastUpdatedBy = &actorID
	event.LastUpdatedAt = &now

	if err := s.repo.UpdateDetails(ctx, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	if s.cache != nil {
		s.cache.InvalidateEventCaches(ctx)
	}
	return event, nil
}

// Get fetches one event by id, trimmed for unprivileged viewers.
func (s *EventService) Get(ctx context.Context, viewer *models.Actor, id string) (*models.Event, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.presentEvent(viewer, event)
}

// GetByCode fetches one event by its human readable code.
func (s *EventService) GetByCode(ctx context.Context, viewer *models.Actor, code string) (*models.Event, error) {
	event, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return s.presentEvent(viewer, event)
}

// ListIncomplete returns a club's drafts, visible to the owner and council.
func (s *EventService) ListIncomplete(ctx context.Context, actor models.Actor, clubID string) ([]models.Event, error) {
	if !actor.OwnsClub(clubID) && actor.Role != models.RoleCouncil {
		return nil, appErrors.ErrForbidden
	}
	events, err := s.repo.List(ctx, models.EventFilter{
		ClubID: clubID,
		States: []models.EventState{models.StateIncomplete},
	})
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return events, nil
}

// ListPending returns the approval queue for the actor's desk.
func (s *EventService) ListPending(ctx context.Context, actor models.Actor) ([]models.Event, error) {
	var states []models.EventState
	switch actor.Role {
	case models.RoleCouncil:
		states = []models.EventState{models.StatePendingCouncil, models.StatePendingBudget, models.StatePendingRoom}
	case models.RoleFinance:
		states = []models.EventState{models.StatePendingBudget}
	case models.RoleRoomOffice:
		states = []models.EventState{models.StatePendingRoom}
	default:
		return nil, appErrors.ErrForbidden
	}
	events, err := s.repo.List(ctx, models.EventFilter{States: states})
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return events, nil
}

// ReassignClub bulk-moves events between club ids. Reserved for inter-service
// housekeeping: the caller must present the shared secret and council role.
func (s *EventService) ReassignClub(ctx context.Context, actor models.Actor, req dto.ReassignClubRequest) (int64, error) {
	if actor.Role != models.RoleCouncil {
		return 0, appErrors.ErrForbidden
	}
	if s.interSecret == "" || subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.interSecret)) != 1 {
		return 0, appErrors.ErrUnauthorized
	}
	if _, err := s.clubs.GetClub(ctx, req.NewClubID); err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound.Code) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "target club not found")
		}
		return 0, err
	}

	moved, err := s.repo.ReassignClub(ctx, req.OldClubID, req.NewClubID)
	if err != nil {
		return 0, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	if s.cache != nil {
		s.cache.InvalidateEventCaches(ctx)
	}
	s.logger.Info("club events reassigned",
		zap.String("old_club", req.OldClubID),
		zap.String("new_club", req.NewClubID),
		zap.Int64("moved", moved),
	)
	return moved, nil
}

func (s *EventService) getEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return event, nil
}

func (s *EventService) presentEvent(viewer *models.Actor, event *models.Event) (*models.Event, error) {
	privileged := viewer != nil &&
		(viewer.Role == models.RoleCouncil || viewer.Role == models.RoleFinance ||
			viewer.Role == models.RoleRoomOffice || viewer.OwnsClub(event.ClubID))
	if privileged {
		return event, nil
	}
	if event.State != models.StateApproved && event.State != models.StateDeleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	event.TrimPublic()
	return event, nil
}

func (s *EventService) resolvePOC(ctx context.Context, clubID, poc string) error {
	if poc == "" {
		return appErrors.Clone(appErrors.ErrValidation, "a point of contact is required")
	}
	if _, err := s.members.GetMember(ctx, clubID, poc); err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound.Code) {
			return appErrors.Clone(appErrors.ErrValidation, "point of contact is not a member of the club")
		}
		return err
	}
	return nil
}

// allocateCode builds the human readable event code: an uppercase club
// prefix, the fiscal year, and a per-club sequence number within that year.
func (s *EventService) allocateCode(ctx context.Context, clubID string, startAt time.Time) (string, error) {
	fyStart, fyEnd := s.fiscalYear(startAt)
	count, err := s.repo.CountClubEvents(ctx, clubID, fyStart, fyEnd)
	if err != nil {
		return "", appErrors.Wrap(appErrors.ErrInternal, err)
	}
	return fmt.Sprintf("%s%d%03d", clubCodePrefix(clubID), fyStart.Year(), count+1), nil
}

func (s *EventService) fiscalYear(t time.Time) (time.Time, time.Time) {
	year := t.Year()
	if int(t.Month()) < s.fiscalStartMonth {
		year--
	}
	start := time.Date(year, time.Month(s.fiscalStartMonth), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond)
}

// clubCodePrefix condenses a club id into the uppercase code prefix.
func clubCodePrefix(clubID string) string {
	var b strings.Builder
	for _, r := range clubID {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
		if b.Len() >= 4 {
			break
		}
	}
	if b.Len() == 0 {
		return "EVT"
	}
	return b.String()
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "start and end times are required")
	}
	if !start.Before(end) {
		return appErrors.Clone(appErrors.ErrValidation, "event start must be before its end")
	}
	return nil
}

func validateRooms(locations, altLocations models.RoomList) error {
	for _, room := range append(append(models.RoomList{}, locations...), altLocations...) {
		if room != models.RoomOther && !room.InCatalog() {
			return appErrors.Clone(appErrors.ErrValidation, "unknown room: "+string(room))
		}
	}
	return nil
}

func applyEdit(event *models.Event, req dto.EditEventRequest) {
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Mode != nil {
		event.Mode = models.EventMode(*req.Mode)
	}
	if req.Audience != nil {
		event.Audience = *req.Audience
	}
	if req.CollabClubIDs != nil {
		event.CollabClubIDs = *req.CollabClubIDs
	}
	if req.StartAt != nil {
		event.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		event.EndAt = *req.EndAt
	}
	if req.Locations != nil {
		event.Locations = models.RoomList(*req.Locations)
	}
	if req.AltLocations != nil {
		event.AltLocations = models.RoomList(*req.AltLocations)
	}
	if req.OtherLocation != nil {
		event.OtherLocation = req.OtherLocation
	}
	if req.OtherAltLocation != nil {
		event.OtherAltLocation = req.OtherAltLocation
	}
	if req.POC != nil {
		event.POC = *req.POC
	}
	if req.Link != nil {
		event.Link = req.Link
	}
	if req.Equipment != nil {
		event.Equipment = req.Equipment
	}
	if req.Additional != nil {
		event.Additional = req.Additional
	}
	if req.Population != nil {
		event.Population = *req.Population
	}
	if req.ExternalPopulation != nil {
		event.ExternalPopulation = *req.ExternalPopulation
	}
	if req.Budget != nil {
		event.Budget = models.BudgetList(*req.Budget)
	}
	if req.Sponsors != nil {
		event.Sponsors = models.SponsorList(*req.Sponsors)
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/repository"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type roomsStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RoomsService answers "which rooms are free" and "what clashes" over the
// approved reservations. Only approved events constrain availability;
// pending and deleted events never block a room.
type RoomsService struct {
	repo     roomsStore
	cache    availabilityCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewRoomsService constructs the service. A nil cache disables caching.
func NewRoomsService(repo roomsStore, cache availabilityCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *RoomsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomsService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// AvailableRooms reports, for every catalog room, whether it is free over the
// requested interval. Overlap uses closed endpoints: a booking ending exactly
// at the query start still occupies its rooms. When excludeEventID is given,
// that event's own booked rooms never count as occupied, so an event editing
// its slot does not collide with itself.
func (s *RoomsService) AvailableRooms(ctx context.Context, req dto.AvailableRoomsRequest) ([]models.RoomAvailability, error) {
	if !req.Start.Before(req.End) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "interval start must be before end")
	}

	cacheKey := fmt.Sprintf("%s%d:%d:%s", repository.CacheKeyRoomsPrefix, req.Start.Unix(), req.End.Unix(), req.ExcludeEventID)
	if s.cache != nil {
		var cached []models.RoomAvailability
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	queryStart := time.Now()
	overlapping, err := s.repo.ListApprovedOverlapping(ctx, req.Start, req.End)
	s.metrics.ObserveDBQuery("events_approved_overlapping", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	occupied := make(map[models.Room]struct{})
	for _, other := range overlapping {
		for _, room := range other.BookedRooms() {
			occupied[room] = struct{}{}
		}
	}

	if req.ExcludeEventID != "" {
		self, err := s.repo.GetByID(ctx, req.ExcludeEventID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(appErrors.ErrInternal, err)
		}
		if self != nil {
			for _, room := range self.BookedRooms() {
				delete(occupied, room)
			}
		}
	}

	catalog := models.RoomCatalog()
	report := make([]models.RoomAvailability, 0, len(catalog))
	for _, room := range catalog {
		_, taken := occupied[room]
		report = append(report, models.RoomAvailability{
			Room:      room,
			Label:     room.Label(),
			Available: !taken,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.cacheTTL); err != nil {
			s.logger.Warn("room availability cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

// ClashingEvents returns the other approved events overlapping the given
// event's interval. With filterByLocation set, only events sharing at least
// one catalog room are reported; the free-text "other" value never restricts.
func (s *RoomsService) ClashingEvents(ctx context.Context, eventID string, filterByLocation bool) ([]models.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}
	if event.State != models.StateApproved {
		return nil, appErrors.Clone(appErrors.ErrValidation, "clash checks apply to approved events only")
	}

	overlapping, err := s.repo.ListApprovedOverlapping(ctx, event.StartAt, event.EndAt)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	booked := event.BookedRooms()
	clashes := make([]models.Event, 0, len(overlapping))
	for _, other := range overlapping {
		if other.ID == event.ID {
			continue
		}
		if filterByLocation && !sharesRoom(booked, other.BookedRooms()) {
			continue
		}
		clashes = append(clashes, other)
	}
	return clashes, nil
}

func sharesRoom(a, b models.RoomList) bool {
	for _, room := range a {
		if b.Contains(room) {
			return true
		}
	}
	return false
}

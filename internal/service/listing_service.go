package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/repository"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type listingStore interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	ListBucket(ctx context.Context, filter models.EventFilter, bucket models.TimeBucket, now time.Time, skip, limit int) ([]models.Event, error)
}

// ListingService presents events partitioned relative to "now": ongoing
// first (soonest to end), then upcoming (soonest to start), then past
// (most recent first). Pagination applies to the past bucket only.
type ListingService struct {
	repo              listingStore
	cache             availabilityCache
	cacheTTL          time.Duration
	defaultPastMonths int
	maxPageSize       int
	metrics           *MetricsService
	logger            *zap.Logger
	now               func() time.Time
}

// NewListingService constructs the service.
func NewListingService(repo listingStore, cache availabilityCache, cacheTTL time.Duration, defaultPastMonths, maxPageSize int, metrics *MetricsService, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		repo:              repo,
		cache:             cache,
		cacheTTL:          cacheTTL,
		defaultPastMonths: defaultPastMonths,
		maxPageSize:       maxPageSize,
		metrics:           metrics,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// ListEvents returns the bucketed listing visible to the viewer. A nil viewer
// is an anonymous caller and sees approved, non-internal events only.
func (s *ListingService) ListEvents(ctx context.Context, viewer *models.Actor, req dto.ListEventsRequest) ([]models.Event, error) {
	if req.Limit < 0 || req.Skip < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "skip and limit must be non-negative")
	}
	if req.Limit == 0 || req.Limit > s.maxPageSize {
		req.Limit = s.maxPageSize
	}

	publicView := viewer == nil || req.Public
	filter := s.visibilityFilter(viewer, req, publicView)

	now := s.now()
	if months := s.pastWindowMonths(viewer, req); months > 0 {
		oldest := now.AddDate(0, -months, 0)
		filter.PastOldest = &oldest
	}

	cacheKey := ""
	if publicView && s.cache != nil {
		cacheKey = fmt.Sprintf("%s%s:%s:%t:%d:%d", repository.CacheKeyListingPrefix,
			req.ClubID, req.Name, req.Paginated, req.Skip, req.Limit)
		var cached []models.Event
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	skip, limit := 0, 0
	if req.Paginated {
		skip, limit = req.Skip, req.Limit
	}

	var events []models.Event
	for _, bucket := range []models.TimeBucket{models.BucketOngoing, models.BucketUpcoming, models.BucketPast} {
		bucketSkip, bucketLimit := 0, 0
		if bucket == models.BucketPast {
			bucketSkip, bucketLimit = skip, limit
		}
		queryStart := time.Now()
		part, err := s.repo.ListBucket(ctx, filter, bucket, now, bucketSkip, bucketLimit)
		s.metrics.ObserveDBQuery("events_list_"+string(bucket), time.Since(queryStart))
		if err != nil {
			return nil, appErrors.Wrap(appErrors.ErrInternal, err)
		}
		events = append(events, part...)
	}

	if publicView {
		for i := range events {
			events[i].TrimPublic()
		}
		if cacheKey != "" {
			if err := s.cache.Set(ctx, cacheKey, events, s.cacheTTL); err != nil {
				s.logger.Warn("listing cache write failed", zap.Error(err))
			}
		}
	}
	return events, nil
}

// visibilityFilter maps the viewer's role onto the states they may see.
func (s *ListingService) visibilityFilter(viewer *models.Actor, req dto.ListEventsRequest, publicView bool) models.EventFilter {
	filter := models.EventFilter{ClubID: req.ClubID}

	// Name filtering is a paginated-query feature only; unpaginated full
	// dumps stay filter-free.
	if req.Paginated {
		filter.Name = req.Name
	}

	switch {
	case publicView:
		filter.States = []models.EventState{models.StateApproved}
		filter.ExcludeInternal = true
	case viewer.Role == models.RoleClub && viewer.OwnsClub(req.ClubID):
		// Owners see their whole pipeline, including drafts.
	case viewer.Role == models.RoleCouncil:
		filter.States = []models.EventState{
			models.StatePendingCouncil, models.StatePendingBudget,
			models.StatePendingRoom, models.StateApproved,
		}
	case viewer.Role == models.RoleFinance || viewer.Role == models.RoleRoomOffice:
		filter.States = []models.EventState{
			models.StatePendingBudget, models.StatePendingRoom, models.StateApproved,
		}
	default:
		filter.States = []models.EventState{models.StateApproved}
	}
	return filter
}

// pastWindowMonths bounds how far back the past bucket reaches. Unprivileged
// viewers always get the configured default; privileged viewers may pass
// their own window or none at all.
func (s *ListingService) pastWindowMonths(viewer *models.Actor, req dto.ListEventsRequest) int {
	privileged := viewer != nil &&
		(viewer.Role == models.RoleCouncil || viewer.Role == models.RoleFinance || viewer.Role == models.RoleRoomOffice ||
			(viewer.Role == models.RoleClub && viewer.OwnsClub(req.ClubID)))
	if !privileged {
		return s.defaultPastMonths
	}
	if req.PastMonths != nil {
		return *req.PastMonths
	}
	return 0
}

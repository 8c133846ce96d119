package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type scriptedCache struct {
	getErr error
}

func (c *scriptedCache) Get(_ context.Context, _ string, _ interface{}) error {
	return c.getErr
}

func (c *scriptedCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func TestMetricsServiceNilReceiver(t *testing.T) {
	var m *MetricsService
	require.NotPanics(t, func() {
		m.RecordCacheOperation(true)
		m.ObserveDBQuery("events_list_all", time.Millisecond)
		m.ObserveTransition("submit", "pending_council")
		m.ObserveConflict()
	})
}

func TestRoomsServiceRecordsCacheAndQueryMetrics(t *testing.T) {
	metrics := NewMetricsService()
	store := &stubRoomsStore{}
	svc := NewRoomsService(store, &scriptedCache{getErr: appErrors.ErrCacheMiss}, time.Minute, metrics, nil)

	req := dto.AvailableRoomsRequest{
		Start: time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC),
	}

	_, err := svc.AvailableRooms(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.cacheHits))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
	require.Equal(t, 1, testutil.CollectAndCount(metrics.dbQueryDuration))

	svc.cache = &scriptedCache{}
	_, err = svc.AvailableRooms(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
}

func TestListingServiceRecordsQueryMetrics(t *testing.T) {
	metrics := NewMetricsService()
	store := &stubListingStore{}
	svc := NewListingService(store, nil, 0, 6, 50, metrics, nil)

	_, err := svc.ListEvents(context.Background(), nil, dto.ListEventsRequest{})
	require.NoError(t, err)
	require.NotZero(t, testutil.CollectAndCount(metrics.dbQueryDuration))
}

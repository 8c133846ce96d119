package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Clubs-Council-IIITH/events/internal/directory"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/pkg/jobs"
)

type captureSink struct {
	mu       sync.Mutex
	received []TransitionNotification
	done     chan struct{}
}

func (s *captureSink) Deliver(_ context.Context, notification TransitionNotification) error {
	s.mu.Lock()
	s.received = append(s.received, notification)
	s.mu.Unlock()
	select {
	case s.done <- struct{}{}:
	default:
	}
	return nil
}

func TestNotifierDeliversTransition(t *testing.T) {
	sink := &captureSink{done: make(chan struct{}, 1)}
	dir := &stubDirectory{clubs: map[string]*directory.Club{
		"cultural-club": {ID: "cultural-club", Name: "Cultural Club", Email: "cc@campus.edu"},
	}}
	notifier := NewNotifier(sink, dir, jobs.QueueConfig{Workers: 1}, nil)
	notifier.Start(context.Background())
	defer notifier.Stop()

	event := workflowEvent("ev-1", models.StateApproved, models.CategoryClub)
	event.Code = "CULT2026001"
	notifier.EventTransitioned(context.Background(), event, ActionApproveRoom, models.Actor{ID: "slo-1", Role: models.RoleRoomOffice})

	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.received, 1)
	got := sink.received[0]
	require.Equal(t, "ev-1", got.EventID)
	require.Equal(t, "CULT2026001", got.EventCode)
	require.Equal(t, models.StateApproved, got.State)
	require.Equal(t, string(ActionApproveRoom), got.Action)
	require.Equal(t, "Cultural Club", got.ClubName)
	require.Equal(t, "cc@campus.edu", got.ClubEmail)
}

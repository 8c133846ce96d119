package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Clubs-Council-IIITH/events/internal/directory"
	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type stubEventStore struct {
	events     map[string]*models.Event
	clubCounts map[string]int
	created    []*models.Event
	reassigned int64
}

func newStubEventStore(events ...*models.Event) *stubEventStore {
	store := &stubEventStore{events: make(map[string]*models.Event), clubCounts: make(map[string]int)}
	for _, ev := range events {
		store.events[ev.ID] = ev
	}
	return store
}

func (s *stubEventStore) Create(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = "generated"
	}
	s.created = append(s.created, event)
	s.events[event.ID] = event
	return nil
}

func (s *stubEventStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	ev, ok := s.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *ev
	return &copied, nil
}

func (s *stubEventStore) GetByCode(_ context.Context, code string) (*models.Event, error) {
	for _, ev := range s.events {
		if ev.Code == code {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubEventStore) UpdateDetails(_ context.Context, event *models.Event) error {
	if _, ok := s.events[event.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *stubEventStore) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range s.events {
		match := len(filter.States) == 0
		for _, st := range filter.States {
			if ev.State == st {
				match = true
			}
		}
		if !match {
			continue
		}
		if filter.ClubID != "" && ev.ClubID != filter.ClubID {
			continue
		}
		out = append(out, *ev)
	}
	return out, nil
}

func (s *stubEventStore) CountClubEvents(_ context.Context, clubID string, _, _ time.Time) (int, error) {
	return s.clubCounts[clubID], nil
}

func (s *stubEventStore) ReassignClub(_ context.Context, oldClubID, newClubID string) (int64, error) {
	for _, ev := range s.events {
		if ev.ClubID == oldClubID {
			ev.ClubID = newClubID
			s.reassigned++
		}
	}
	return s.reassigned, nil
}

type stubDirectory struct {
	clubs   map[string]*directory.Club
	members map[string]bool
}

func (s *stubDirectory) GetClub(_ context.Context, clubID string) (*directory.Club, error) {
	club, ok := s.clubs[clubID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return club, nil
}

func (s *stubDirectory) GetMember(_ context.Context, clubID, userID string) (*directory.Member, error) {
	if !s.members[clubID+"/"+userID] {
		return nil, appErrors.ErrNotFound
	}
	return &directory.Member{ID: userID, ClubID: clubID}, nil
}

func newEventServiceFixture(events ...*models.Event) (*EventService, *stubEventStore, *stubDirectory) {
	store := newStubEventStore(events...)
	dir := &stubDirectory{
		clubs: map[string]*directory.Club{
			"cultural-club": {ID: "cultural-club", Name: "Cultural Club", Category: models.CategoryClub},
			"sports-body":   {ID: "sports-body", Name: "Sports Body", Category: models.CategoryStudentBody},
		},
		members: map[string]bool{"cultural-club/poc-1": true},
	}
	svc := NewEventService(store, dir, dir, nil, "shared-secret", 4, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC) }
	return svc, store, dir
}

func validCreateRequest() dto.CreateEventRequest {
	return dto.CreateEventRequest{
		ClubID:    "cultural-club",
		Name:      "Spring Showcase",
		StartAt:   time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
		EndAt:     time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC),
		POC:       "poc-1",
		Locations: []models.Room{models.RoomH101},
	}
}

func TestEventCreate(t *testing.T) {
	svc, store, _ := newEventServiceFixture()
	store.clubCounts["cultural-club"] = 2
	owner := models.Actor{ID: "cultural-club", Role: models.RoleClub}

	event, err := svc.Create(context.Background(), owner, validCreateRequest())
	require.NoError(t, err)
	require.Equal(t, models.StateIncomplete, event.State)
	require.Equal(t, models.CategoryClub, event.Category)
	// May 2026 sits in the fiscal year starting April 2026; this is the
	// club's third event of that year.
	require.Equal(t, "CULT2026003", event.Code)
	require.Len(t, store.created, 1)
}

func TestEventCreateGuards(t *testing.T) {
	owner := models.Actor{ID: "cultural-club", Role: models.RoleClub}

	t.Run("foreign club refused", func(t *testing.T) {
		svc, store, _ := newEventServiceFixture()
		req := validCreateRequest()
		_, err := svc.Create(context.Background(), models.Actor{ID: "other", Role: models.RoleClub}, req)
		require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
		require.Empty(t, store.created)
	})

	t.Run("inverted interval", func(t *testing.T) {
		svc, store, _ := newEventServiceFixture()
		req := validCreateRequest()
		req.StartAt, req.EndAt = req.EndAt, req.StartAt
		_, err := svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
		require.Empty(t, store.created)
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, store, _ := newEventServiceFixture()
		req := validCreateRequest()
		req.Locations = []models.Room{"ballroom"}
		_, err := svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
		require.Empty(t, store.created)
	})

	t.Run("unresolvable club aborts", func(t *testing.T) {
		svc, store, dir := newEventServiceFixture()
		delete(dir.clubs, "cultural-club")
		_, err := svc.Create(context.Background(), owner, validCreateRequest())
		require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
		require.Empty(t, store.created)
	})

	t.Run("unknown poc aborts", func(t *testing.T) {
		svc, store, _ := newEventServiceFixture()
		req := validCreateRequest()
		req.POC = "stranger"
		_, err := svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
		require.Empty(t, store.created)
	})
}

func TestEventEditGating(t *testing.T) {
	newName := "Renamed"

	t.Run("club edits its draft", func(t *testing.T) {
		svc, store, _ := newEventServiceFixture(workflowEvent("ev-1", models.StateIncomplete, models.CategoryClub))
		owner := models.Actor{ID: "cultural-club", Role: models.RoleClub}

		event, err := svc.Edit(context.Background(), owner, "ev-1", dto.EditEventRequest{ClubID: "cultural-club", Name: &newName})
		require.NoError(t, err)
		require.Equal(t, "Renamed", event.Name)
		require.Equal(t, "Renamed", store.events["ev-1"].Name)
	})

	t.Run("club cannot edit after submission", func(t *testing.T) {
		svc, _, _ := newEventServiceFixture(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
		owner := models.Actor{ID: "cultural-club", Role: models.RoleClub}

		_, err := svc.Edit(context.Background(), owner, "ev-1", dto.EditEventRequest{ClubID: "cultural-club", Name: &newName})
		require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
	})

	t.Run("council edits any state without touching status", func(t *testing.T) {
		ev := workflowEvent("ev-1", models.StateApproved, models.CategoryClub)
		ev.BudgetCleared, ev.RoomCleared = true, true
		svc, store, _ := newEventServiceFixture(ev)

		event, err := svc.Edit(context.Background(), models.Actor{ID: "cc-1", Role: models.RoleCouncil}, "ev-1", dto.EditEventRequest{Name: &newName})
		require.NoError(t, err)
		require.Equal(t, "Renamed", event.Name)
		require.Equal(t, models.StateApproved, store.events["ev-1"].State)
		require.True(t, store.events["ev-1"].BudgetCleared)
	})

	t.Run("edit cannot invert the interval", func(t *testing.T) {
		svc, _, _ := newEventServiceFixture(workflowEvent("ev-1", models.StateIncomplete, models.CategoryClub))
		owner := models.Actor{ID: "cultural-club", Role: models.RoleClub}
		badEnd := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.Edit(context.Background(), owner, "ev-1", dto.EditEventRequest{ClubID: "cultural-club", EndAt: &badEnd})
		require.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	})
}

func TestEventGetTrimsForPublic(t *testing.T) {
	ev := workflowEvent("ev-1", models.StateApproved, models.CategoryClub)
	ev.Population = 100
	ev.POC = "poc-1"
	ev.Budget = models.BudgetList{{Amount: 500}}
	draft := workflowEvent("ev-2", models.StateIncomplete, models.CategoryClub)
	svc, _, _ := newEventServiceFixture(ev, draft)

	t.Run("anonymous viewer gets trimmed approved event", func(t *testing.T) {
		got, err := svc.Get(context.Background(), nil, "ev-1")
		require.NoError(t, err)
		require.Zero(t, got.Population)
		require.Empty(t, got.POC)
		require.Nil(t, got.Budget)
	})

	t.Run("anonymous viewer cannot see drafts", func(t *testing.T) {
		_, err := svc.Get(context.Background(), nil, "ev-2")
		require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
	})

	t.Run("owner sees everything", func(t *testing.T) {
		owner := &models.Actor{ID: "cultural-club", Role: models.RoleClub}
		got, err := svc.Get(context.Background(), owner, "ev-1")
		require.NoError(t, err)
		require.Equal(t, 100, got.Population)
	})
}

func TestEventListPendingByDesk(t *testing.T) {
	svc, _, _ := newEventServiceFixture(
		workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub),
		workflowEvent("ev-2", models.StatePendingBudget, models.CategoryClub),
		workflowEvent("ev-3", models.StatePendingRoom, models.CategoryClub),
	)

	events, err := svc.ListPending(context.Background(), models.Actor{ID: "fin-1", Role: models.RoleFinance})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "ev-2", events[0].ID)

	events, err = svc.ListPending(context.Background(), models.Actor{ID: "cc-1", Role: models.RoleCouncil})
	require.NoError(t, err)
	require.Len(t, events, 3)

	_, err = svc.ListPending(context.Background(), models.Actor{ID: "cultural-club", Role: models.RoleClub})
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestEventReassignClub(t *testing.T) {
	council := models.Actor{ID: "cc-1", Role: models.RoleCouncil}

	t.Run("wrong secret refused", func(t *testing.T) {
		svc, _, _ := newEventServiceFixture(workflowEvent("ev-1", models.StateApproved, models.CategoryClub))
		_, err := svc.ReassignClub(context.Background(), council, dto.ReassignClubRequest{
			OldClubID: "cultural-club", NewClubID: "sports-body", Secret: "wrong",
		})
		require.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
	})

	t.Run("moves events with the right secret", func(t *testing.T) {
		svc, store, _ := newEventServiceFixture(workflowEvent("ev-1", models.StateApproved, models.CategoryClub))
		moved, err := svc.ReassignClub(context.Background(), council, dto.ReassignClubRequest{
			OldClubID: "cultural-club", NewClubID: "sports-body", Secret: "shared-secret",
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, moved)
		require.Equal(t, "sports-body", store.events["ev-1"].ClubID)
	})

	t.Run("non council refused", func(t *testing.T) {
		svc, _, _ := newEventServiceFixture()
		_, err := svc.ReassignClub(context.Background(), models.Actor{ID: "x", Role: models.RoleClub}, dto.ReassignClubRequest{
			OldClubID: "a", NewClubID: "b", Secret: "shared-secret",
		})
		require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
	})
}

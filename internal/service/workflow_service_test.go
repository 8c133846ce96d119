package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type stubWorkflowStore struct {
	events      map[string]*models.Event
	staleRead   *models.Event
	updateErr   error
	updates     int
	lastStatus  models.EventStatus
	lastExpects models.EventState
}

func newStubWorkflowStore(events ...*models.Event) *stubWorkflowStore {
	store := &stubWorkflowStore{events: make(map[string]*models.Event)}
	for _, ev := range events {
		store.events[ev.ID] = ev
	}
	return store
}

func (s *stubWorkflowStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	if s.staleRead != nil {
		copied := *s.staleRead
		s.staleRead = nil
		return &copied, nil
	}
	ev, ok := s.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *ev
	return &copied, nil
}

func (s *stubWorkflowStore) UpdateStatus(_ context.Context, id string, expected models.EventState, status models.EventStatus) error {
	s.updates++
	s.lastExpects = expected
	s.lastStatus = status
	if s.updateErr != nil {
		return s.updateErr
	}
	ev, ok := s.events[id]
	if !ok || ev.State != expected {
		return sql.ErrNoRows
	}
	ev.EventStatus = status
	return nil
}

type recordingNotifier struct {
	actions []Action
}

func (n *recordingNotifier) EventTransitioned(_ context.Context, _ *models.Event, action Action, _ models.Actor) {
	n.actions = append(n.actions, action)
}

func workflowEvent(id string, state models.EventState, category models.ClubCategory) *models.Event {
	return &models.Event{
		ID:          id,
		ClubID:      "cultural-club",
		Category:    category,
		Name:        "Spring Showcase",
		StartAt:     time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		EventStatus: models.EventStatus{State: state},
	}
}

func newWorkflowService(store *stubWorkflowStore, notifier *recordingNotifier) *WorkflowService {
	var n transitionNotifier
	if notifier != nil {
		n = notifier
	}
	svc := NewWorkflowService(store, n, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestWorkflowSubmitDefaultTrack(t *testing.T) {
	store := newStubWorkflowStore(workflowEvent("ev-1", models.StateIncomplete, models.CategoryClub))
	svc := newWorkflowService(store, nil)

	event, err := svc.Transition(context.Background(), "ev-1", models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionSubmit, TransitionParams{})
	require.NoError(t, err)
	require.Equal(t, models.StatePendingCouncil, event.State)
	require.False(t, event.BudgetCleared)
	require.False(t, event.RoomCleared)
	require.NotNil(t, event.SubmittedAt)
}

func TestWorkflowCategoryShortcuts(t *testing.T) {
	t.Run("student body skips finance", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StateIncomplete, models.CategoryStudentBody))
		svc := newWorkflowService(store, nil)

		event, err := svc.Transition(context.Background(), "ev-1", models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionSubmit, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StatePendingRoom, event.State)
		require.False(t, event.BudgetCleared)
		require.False(t, event.RoomCleared)
	})

	t.Run("admin body lands approved", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StateIncomplete, models.CategoryAdminBody))
		svc := newWorkflowService(store, nil)

		event, err := svc.Transition(context.Background(), "ev-1", models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionSubmit, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, event.State)
		require.True(t, event.BudgetCleared)
		require.True(t, event.RoomCleared)
		require.NotNil(t, event.RoomApprover)
		require.Equal(t, "cultural-club", *event.RoomApprover)
		require.NotNil(t, event.RoomApprovedAt)
	})
}

func TestWorkflowUnlistedPairsAreForbidden(t *testing.T) {
	cases := []struct {
		name   string
		state  models.EventState
		actor  models.Actor
		action Action
	}{
		{"finance cannot decide", models.StatePendingCouncil, models.Actor{ID: "fin-1", Role: models.RoleFinance}, ActionDecide},
		{"club cannot approve budget", models.StatePendingBudget, models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionApproveBudget},
		{"council cannot approve room", models.StatePendingRoom, models.Actor{ID: "cc-1", Role: models.RoleCouncil}, ActionApproveRoom},
		{"reject from incomplete", models.StateIncomplete, models.Actor{ID: "cc-1", Role: models.RoleCouncil}, ActionReject},
		{"delete from incomplete", models.StateIncomplete, models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionDelete},
		{"submit from approved", models.StateApproved, models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionSubmit},
		{"non owner submit", models.StateIncomplete, models.Actor{ID: "other-club", Role: models.RoleClub}, ActionSubmit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubWorkflowStore(workflowEvent("ev-1", tc.state, models.CategoryClub))
			svc := newWorkflowService(store, nil)

			_, err := svc.Transition(context.Background(), "ev-1", tc.actor, tc.action, TransitionParams{Reason: "x", ApproverID: "x"})
			require.Error(t, err)
			require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
			require.Zero(t, store.updates, "a refused transition must not write")
			require.Equal(t, tc.state, store.events["ev-1"].State, "stored status must be unchanged")
		})
	}
}

func TestWorkflowDecideBranches(t *testing.T) {
	council := models.Actor{ID: "cc-1", Role: models.RoleCouncil}
	yes := true

	t.Run("default goes to budget desk", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		event, err := svc.Decide(context.Background(), "ev-1", council, dto.DecideRequest{ApproverID: "cc-1"})
		require.NoError(t, err)
		require.Equal(t, models.StatePendingBudget, event.State)
		require.NotNil(t, event.CouncilApprover)
		require.Nil(t, event.FinanceApprovedAt)
		require.Nil(t, event.RoomApprovedAt)
	})

	t.Run("budget override skips to room desk", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		event, err := svc.Decide(context.Background(), "ev-1", council, dto.DecideRequest{ApproverID: "cc-1", BudgetOverride: &yes})
		require.NoError(t, err)
		require.Equal(t, models.StatePendingRoom, event.State)
		require.True(t, event.BudgetCleared)
	})

	t.Run("both overrides land approved with cleared stage stamps", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		event, err := svc.Decide(context.Background(), "ev-1", council, dto.DecideRequest{ApproverID: "cc-1", BudgetOverride: &yes, RoomOverride: &yes})
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, event.State)
		require.Nil(t, event.FinanceApprovedAt)
		require.Nil(t, event.RoomApprovedAt)
	})

	t.Run("approver id is mandatory", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		_, err := svc.Decide(context.Background(), "ev-1", council, dto.DecideRequest{})
		require.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
		require.Zero(t, store.updates)
	})
}

func TestWorkflowRejectScenario(t *testing.T) {
	store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
	submitted := time.Date(2026, 3, 30, 8, 0, 0, 0, time.UTC)
	store.events["ev-1"].SubmittedAt = &submitted
	svc := newWorkflowService(store, nil)
	council := models.Actor{ID: "cc-1", Role: models.RoleCouncil}

	event, err := svc.Reject(context.Background(), "ev-1", council, dto.RejectRequest{Reason: "insufficient detail"})
	require.NoError(t, err)
	require.Equal(t, models.StateIncomplete, event.State)
	require.False(t, event.BudgetCleared)
	require.False(t, event.RoomCleared)
	require.Nil(t, event.SubmittedAt)

	// A second reject from Incomplete has no transition row.
	_, err = svc.Reject(context.Background(), "ev-1", council, dto.RejectRequest{Reason: "again"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestWorkflowBudgetApproval(t *testing.T) {
	finance := models.Actor{ID: "fin-1", Role: models.RoleFinance}

	t.Run("moves to room desk", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingBudget, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		event, err := svc.Transition(context.Background(), "ev-1", finance, ActionApproveBudget, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StatePendingRoom, event.State)
		require.True(t, event.BudgetCleared)
		require.NotNil(t, event.FinanceApprover)
	})

	t.Run("skips to approved when room already cleared", func(t *testing.T) {
		ev := workflowEvent("ev-1", models.StatePendingBudget, models.CategoryClub)
		ev.RoomCleared = true
		store := newStubWorkflowStore(ev)
		svc := newWorkflowService(store, nil)

		event, err := svc.Transition(context.Background(), "ev-1", finance, ActionApproveBudget, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, event.State)
		require.NotNil(t, event.RoomApprovedAt)
	})

	t.Run("fails closed on inconsistent gate", func(t *testing.T) {
		ev := workflowEvent("ev-1", models.StatePendingBudget, models.CategoryClub)
		ev.BudgetCleared = true
		store := newStubWorkflowStore(ev)
		svc := newWorkflowService(store, nil)

		_, err := svc.Transition(context.Background(), "ev-1", finance, ActionApproveBudget, TransitionParams{})
		require.True(t, appErrors.HasCode(err, appErrors.ErrConflict.Code))
		require.Zero(t, store.updates)
	})
}

func TestWorkflowRoomApproval(t *testing.T) {
	roomOffice := models.Actor{ID: "slo-1", Role: models.RoleRoomOffice}

	t.Run("requires budget gate", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingRoom, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		_, err := svc.Transition(context.Background(), "ev-1", roomOffice, ActionApproveRoom, TransitionParams{})
		require.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
	})

	t.Run("student body escape hatch closes both gates", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingRoom, models.CategoryStudentBody))
		svc := newWorkflowService(store, nil)

		event, err := svc.Transition(context.Background(), "ev-1", roomOffice, ActionApproveRoom, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, event.State)
		require.True(t, event.BudgetCleared)
		require.True(t, event.RoomCleared)
	})
}

func TestWorkflowConcurrentDecideLosesWithConflict(t *testing.T) {
	store := newStubWorkflowStore(workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub))
	svc := newWorkflowService(store, nil)
	council := models.Actor{ID: "cc-1", Role: models.RoleCouncil}

	// The loser reads PendingCouncil before the winner commits.
	stale := *store.events["ev-1"]

	winner, err := svc.Decide(context.Background(), "ev-1", council, dto.DecideRequest{ApproverID: "cc-1"})
	require.NoError(t, err)
	require.Equal(t, models.StatePendingBudget, winner.State)

	store.staleRead = &stale
	_, err = svc.Decide(context.Background(), "ev-1", council, dto.DecideRequest{ApproverID: "cc-2"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrConflict.Code))
	require.Equal(t, models.StatePendingBudget, store.events["ev-1"].State, "stored state reflects only the winner")
	require.Equal(t, "cc-1", *store.events["ev-1"].CouncilApprover)
}

func TestWorkflowConflictOnLostWrite(t *testing.T) {
	ev := workflowEvent("ev-1", models.StatePendingCouncil, models.CategoryClub)
	store := newStubWorkflowStore(ev)
	store.updateErr = sql.ErrNoRows
	svc := newWorkflowService(store, nil)

	_, err := svc.Decide(context.Background(), "ev-1", models.Actor{ID: "cc-1", Role: models.RoleCouncil}, dto.DecideRequest{ApproverID: "cc-1"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrConflict.Code))
}

func TestWorkflowDeleteAndRefresh(t *testing.T) {
	t.Run("delete stamps tombstone", func(t *testing.T) {
		store := newStubWorkflowStore(workflowEvent("ev-1", models.StateApproved, models.CategoryClub))
		svc := newWorkflowService(store, nil)

		event, err := svc.Transition(context.Background(), "ev-1", models.Actor{ID: "cc-1", Role: models.RoleCouncil}, ActionDelete, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StateDeleted, event.State)
		require.False(t, event.BudgetCleared)
		require.False(t, event.RoomCleared)
		require.NotNil(t, event.DeletedBy)
		require.NotNil(t, event.DeletedAt)
	})

	t.Run("refresh keeps status and notifies", func(t *testing.T) {
		ev := workflowEvent("ev-1", models.StateApproved, models.CategoryClub)
		ev.BudgetCleared = true
		ev.RoomCleared = true
		store := newStubWorkflowStore(ev)
		notifier := &recordingNotifier{}
		svc := newWorkflowService(store, notifier)

		event, err := svc.Transition(context.Background(), "ev-1", models.Actor{ID: "cultural-club", Role: models.RoleClub}, ActionRefresh, TransitionParams{})
		require.NoError(t, err)
		require.Equal(t, models.StateApproved, event.State)
		require.True(t, event.BudgetCleared)
		require.Equal(t, []Action{ActionRefresh}, notifier.actions)
	})
}

func TestWorkflowNotFound(t *testing.T) {
	svc := newWorkflowService(newStubWorkflowStore(), nil)
	_, err := svc.Transition(context.Background(), "missing", models.Actor{ID: "cc-1", Role: models.RoleCouncil}, ActionDecide, TransitionParams{ApproverID: "cc-1"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}

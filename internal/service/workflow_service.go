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

// Action is a workflow verb applied to an event.
type Action string

const (
	ActionSubmit        Action = "submit"
	ActionDecide        Action = "decide"
	ActionApproveBudget Action = "approve_budget"
	ActionApproveRoom   Action = "approve_room"
	ActionReject        Action = "reject"
	ActionRefresh       Action = "refresh"
	ActionDelete        Action = "delete"
)

// TransitionParams carries per-action inputs.
type TransitionParams struct {
	ApproverID     string
	Reason         string
	BudgetOverride *bool
	RoomOverride   *bool
}

type workflowStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	UpdateStatus(ctx context.Context, id string, expected models.EventState, status models.EventStatus) error
}

type transitionNotifier interface {
	EventTransitioned(ctx context.Context, event *models.Event, action Action, actor models.Actor)
}

type cacheInvalidator interface {
	InvalidateEventCaches(ctx context.Context)
}

// WorkflowService drives the approval state machine. Every transition is a
// read, a table lookup, and one conditional write keyed on the state observed
// at read time.
type WorkflowService struct {
	repo     workflowStore
	notifier transitionNotifier
	cache    cacheInvalidator
	logger   *zap.Logger
	now      func() time.Time
}

// NewWorkflowService constructs the service.
func NewWorkflowService(repo workflowStore, notifier transitionNotifier, cache cacheInvalidator, logger *zap.Logger) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		repo:     repo,
		notifier: notifier,
		cache:    cache,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type transitionKey struct {
	state  models.EventState
	action Action
}

type transitionRule struct {
	roles     []models.Role
	ownerOnly bool
	apply     func(event *models.Event, actor models.Actor, params TransitionParams, now time.Time) (models.EventStatus, error)
}

// transitions is the single source of truth for who may do what from which
// state and what the resulting status looks like. A (state, action) pair
// absent from this table is not authorized, full stop.
var transitions = map[transitionKey]transitionRule{
	{models.StateIncomplete, ActionSubmit}: {
		roles:     []models.Role{models.RoleClub},
		ownerOnly: true,
		apply:     applySubmit,
	},
	{models.StatePendingCouncil, ActionDecide}: {
		roles: []models.Role{models.RoleCouncil},
		apply: applyDecide,
	},
	{models.StatePendingCouncil, ActionReject}: {
		roles: []models.Role{models.RoleCouncil},
		apply: applyReject,
	},
	{models.StatePendingBudget, ActionApproveBudget}: {
		roles: []models.Role{models.RoleFinance},
		apply: applyApproveBudget,
	},
	{models.StatePendingRoom, ActionApproveRoom}: {
		roles: []models.Role{models.RoleRoomOffice},
		apply: applyApproveRoom,
	},
	{models.StateApproved, ActionRefresh}: {
		roles:     []models.Role{models.RoleClub, models.RoleCouncil},
		ownerOnly: true,
		apply: func(event *models.Event, _ models.Actor, _ TransitionParams, _ time.Time) (models.EventStatus, error) {
			return event.Status(), nil
		},
	},
	{models.StatePendingCouncil, ActionDelete}: deleteRule,
	{models.StatePendingBudget, ActionDelete}:  deleteRule,
	{models.StatePendingRoom, ActionDelete}:    deleteRule,
	{models.StateApproved, ActionDelete}:       deleteRule,
}

var deleteRule = transitionRule{
	roles:     []models.Role{models.RoleClub, models.RoleCouncil, models.RoleRoomOffice},
	ownerOnly: true,
	apply:     applyDelete,
}

// Transition validates, applies, and persists one workflow action. On success
// it returns the event with the new status, invalidates derived caches, and
// hands the event to the notifier.
func (s *WorkflowService) Transition(ctx context.Context, eventID string, actor models.Actor, action Action, params TransitionParams) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	rule, ok := transitions[transitionKey{event.State, action}]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden,
			"action "+string(action)+" is not allowed from state "+event.State.Label())
	}
	if err := rule.authorize(event, actor); err != nil {
		return nil, err
	}

	observed := event.State
	status, err := rule.apply(event, actor, params, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, event.ID, observed, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyLostWrite(ctx, event.ID)
		}
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	event.EventStatus = status
	s.logger.Info("event transitioned",
		zap.String("event_id", event.ID),
		zap.String("action", string(action)),
		zap.String("from", string(observed)),
		zap.String("to", string(status.State)),
		zap.String("actor", actor.ID),
	)

	if s.cache != nil {
		s.cache.InvalidateEventCaches(ctx)
	}
	if s.notifier != nil {
		s.notifier.EventTransitioned(ctx, event, action, actor)
	}
	return event, nil
}

// Decide records the council decision, which carries gate overrides and a
// mandatory approver id.
func (s *WorkflowService) Decide(ctx context.Context, eventID string, actor models.Actor, req dto.DecideRequest) (*models.Event, error) {
	return s.Transition(ctx, eventID, actor, ActionDecide, TransitionParams{
		ApproverID:     req.ApproverID,
		BudgetOverride: req.BudgetOverride,
		RoomOverride:   req.RoomOverride,
	})
}

// Reject sends a pending event back to its club.
func (s *WorkflowService) Reject(ctx context.Context, eventID string, actor models.Actor, req dto.RejectRequest) (*models.Event, error) {
	return s.Transition(ctx, eventID, actor, ActionReject, TransitionParams{Reason: req.Reason})
}

// classifyLostWrite distinguishes a vanished event from a lost race.
func (s *WorkflowService) classifyLostWrite(ctx context.Context, eventID string) error {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
	}
	return appErrors.ErrConflict
}

func (r transitionRule) authorize(event *models.Event, actor models.Actor) error {
	for _, role := range r.roles {
		if actor.Role != role {
			continue
		}
		if role == models.RoleClub && r.ownerOnly && !actor.OwnsClub(event.ClubID) {
			break
		}
		return nil
	}
	return appErrors.ErrForbidden
}

func applySubmit(event *models.Event, actor models.Actor, _ TransitionParams, now time.Time) (models.EventStatus, error) {
	status := models.EventStatus{
		State:         models.StatePendingCouncil,
		SubmittedAt:   &now,
		LastUpdatedBy: &actor.ID,
		LastUpdatedAt: &now,
	}
	switch event.Category {
	case models.CategoryStudentBody:
		// Student bodies skip the finance track entirely.
		status.State = models.StatePendingRoom
	case models.CategoryAdminBody:
		// Admin bodies self-approve; the submitting actor stands in as the
		// room office approver.
		status.State = models.StateApproved
		status.BudgetCleared = true
		status.RoomCleared = true
		status.RoomApprover = &actor.ID
		status.RoomApprovedAt = &now
	}
	return status, nil
}

func applyDecide(event *models.Event, actor models.Actor, params TransitionParams, now time.Time) (models.EventStatus, error) {
	if params.ApproverID == "" {
		return models.EventStatus{}, appErrors.Clone(appErrors.ErrValidation, "approver id is required")
	}

	status := event.Status()
	status.CouncilApprover = &params.ApproverID
	status.CouncilApprovedAt = &now
	if params.BudgetOverride != nil {
		status.BudgetCleared = *params.BudgetOverride
	}
	if params.RoomOverride != nil {
		status.RoomCleared = *params.RoomOverride
	}

	// Neither downstream desk has acted yet; any timestamps they hold are
	// stale leftovers and moving forward invalidates them.
	status.FinanceApprover = nil
	status.FinanceApprovedAt = nil
	status.RoomApprover = nil
	status.RoomApprovedAt = nil

	switch {
	case !status.BudgetCleared:
		status.State = models.StatePendingBudget
	case !status.RoomCleared:
		status.State = models.StatePendingRoom
	default:
		status.State = models.StateApproved
	}
	status.LastUpdatedBy = &actor.ID
	status.LastUpdatedAt = &now
	return status, nil
}

func applyReject(event *models.Event, actor models.Actor, params TransitionParams, now time.Time) (models.EventStatus, error) {
	if params.Reason == "" {
		return models.EventStatus{}, appErrors.Clone(appErrors.ErrValidation, "a rejection reason is required")
	}
	status := event.Status()
	status.State = models.StateIncomplete
	status.BudgetCleared = false
	status.RoomCleared = false
	status.SubmittedAt = nil
	status.LastUpdatedBy = &actor.ID
	status.LastUpdatedAt = &now
	return status, nil
}

func applyApproveBudget(event *models.Event, actor models.Actor, _ TransitionParams, now time.Time) (models.EventStatus, error) {
	if event.BudgetCleared {
		// The budget gate must be open while the event sits in the finance
		// queue; anything else means the stored status diverged.
		return models.EventStatus{}, appErrors.Clone(appErrors.ErrConflict, "budget gate inconsistent with pending state")
	}
	status := event.Status()
	status.BudgetCleared = true
	status.FinanceApprover = &actor.ID
	status.FinanceApprovedAt = &now
	if status.RoomCleared {
		status.State = models.StateApproved
		status.RoomApprovedAt = &now
	} else {
		status.State = models.StatePendingRoom
	}
	status.LastUpdatedBy = &actor.ID
	status.LastUpdatedAt = &now
	return status, nil
}

func applyApproveRoom(event *models.Event, actor models.Actor, _ TransitionParams, now time.Time) (models.EventStatus, error) {
	if !event.BudgetCleared && event.Category != models.CategoryStudentBody {
		return models.EventStatus{}, appErrors.Clone(appErrors.ErrForbidden, "budget approval is still pending")
	}
	status := event.Status()
	if !status.BudgetCleared {
		// Escape hatch: student bodies never pass the finance desk, so
		// granting the room closes the budget gate too.
		status.BudgetCleared = true
	}
	status.RoomCleared = true
	status.State = models.StateApproved
	status.RoomApprover = &actor.ID
	status.RoomApprovedAt = &now
	status.LastUpdatedBy = &actor.ID
	status.LastUpdatedAt = &now
	return status, nil
}

func applyDelete(event *models.Event, actor models.Actor, _ TransitionParams, now time.Time) (models.EventStatus, error) {
	status := event.Status()
	status.State = models.StateDeleted
	status.BudgetCleared = false
	status.RoomCleared = false
	status.DeletedBy = &actor.ID
	status.DeletedAt = &now
	status.LastUpdatedBy = &actor.ID
	status.LastUpdatedAt = &now
	return status, nil
}

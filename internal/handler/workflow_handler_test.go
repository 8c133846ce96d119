package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/middleware"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/service"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type workflowServiceMock struct {
	resp       *models.Event
	err        error
	lastAction service.Action
	lastDecide dto.DecideRequest
	called     int
}

func (m *workflowServiceMock) Transition(_ context.Context, _ string, _ models.Actor, action service.Action, _ service.TransitionParams) (*models.Event, error) {
	m.called++
	m.lastAction = action
	return m.resp, m.err
}

func (m *workflowServiceMock) Decide(_ context.Context, _ string, _ models.Actor, req dto.DecideRequest) (*models.Event, error) {
	m.called++
	m.lastDecide = req
	return m.resp, m.err
}

func (m *workflowServiceMock) Reject(_ context.Context, _ string, _ models.Actor, _ dto.RejectRequest) (*models.Event, error) {
	m.called++
	return m.resp, m.err
}

func TestWorkflowHandlerSubmit(t *testing.T) {
	mockSvc := &workflowServiceMock{resp: &models.Event{ID: "ev-1", EventStatus: models.EventStatus{State: models.StatePendingCouncil}}}
	handler := NewWorkflowHandler(mockSvc, nil)

	c, w := newEventTestContext(t, http.MethodPost, "/events/ev-1/submit", nil)
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "cultural-club", Role: models.RoleClub})

	handler.Submit(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ActionSubmit, mockSvc.lastAction)
}

func TestWorkflowHandlerRequiresAuth(t *testing.T) {
	mockSvc := &workflowServiceMock{}
	handler := NewWorkflowHandler(mockSvc, nil)

	c, w := newEventTestContext(t, http.MethodPost, "/events/ev-1/submit", nil)
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}

	handler.Submit(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, mockSvc.called)
}

func TestWorkflowHandlerDecide(t *testing.T) {
	mockSvc := &workflowServiceMock{resp: &models.Event{ID: "ev-1", EventStatus: models.EventStatus{State: models.StatePendingBudget}}}
	handler := NewWorkflowHandler(mockSvc, nil)

	c, w := newEventTestContext(t, http.MethodPost, "/events/ev-1/decide", dto.DecideRequest{ApproverID: "cc-1"})
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "cc-1", Role: models.RoleCouncil})

	handler.Decide(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cc-1", mockSvc.lastDecide.ApproverID)
}

func TestWorkflowHandlerDecideRequiresApprover(t *testing.T) {
	mockSvc := &workflowServiceMock{}
	handler := NewWorkflowHandler(mockSvc, nil)

	c, w := newEventTestContext(t, http.MethodPost, "/events/ev-1/decide", dto.DecideRequest{})
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "cc-1", Role: models.RoleCouncil})

	handler.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.called)
}

func TestWorkflowHandlerRejectRequiresReason(t *testing.T) {
	mockSvc := &workflowServiceMock{}
	handler := NewWorkflowHandler(mockSvc, nil)

	c, w := newEventTestContext(t, http.MethodPost, "/events/ev-1/reject", dto.RejectRequest{})
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "cc-1", Role: models.RoleCouncil})

	handler.Reject(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.called)
}

func TestWorkflowHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", appErrors.ErrConflict, http.StatusConflict},
		{"forbidden", appErrors.ErrForbidden, http.StatusForbidden},
		{"not found", appErrors.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewWorkflowHandler(&workflowServiceMock{err: tc.err}, nil)
			c, w := newEventTestContext(t, http.MethodPost, "/events/ev-1/approve-budget", nil)
			c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
			c.Set(middleware.ContextActorKey, models.Actor{ID: "fin-1", Role: models.RoleFinance})

			handler.ApproveBudget(c)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestWorkflowHandlerDelete(t *testing.T) {
	mockSvc := &workflowServiceMock{resp: &models.Event{ID: "ev-1", EventStatus: models.EventStatus{State: models.StateDeleted}}}
	handler := NewWorkflowHandler(mockSvc, nil)

	c, w := newEventTestContext(t, http.MethodDelete, "/events/ev-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "cc-1", Role: models.RoleCouncil})

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ActionDelete, mockSvc.lastAction)
}

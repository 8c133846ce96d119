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
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

type billsServiceMock struct {
	resp    *models.Event
	entries []dto.BillsStatusEntry
	err     error
	lastReq dto.UpdateBillsRequest
	called  int
}

func (m *billsServiceMock) UpdateStatus(_ context.Context, _ models.Actor, _ string, req dto.UpdateBillsRequest) (*models.Event, error) {
	m.called++
	m.lastReq = req
	return m.resp, m.err
}

func (m *billsServiceMock) ListStatuses(_ context.Context, _ models.Actor) ([]dto.BillsStatusEntry, error) {
	m.called++
	return m.entries, m.err
}

func TestBillsHandlerUpdate(t *testing.T) {
	mockSvc := &billsServiceMock{resp: &models.Event{ID: "ev-1"}}
	handler := NewBillsHandler(mockSvc)

	c, w := newEventTestContext(t, http.MethodPatch, "/events/ev-1/bills",
		dto.UpdateBillsRequest{State: models.BillsSubmitted, Comment: "invoices attached"})
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "slo-1", Role: models.RoleRoomOffice})

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BillsSubmitted, mockSvc.lastReq.State)
}

func TestBillsHandlerUpdateRejectsUnknownState(t *testing.T) {
	mockSvc := &billsServiceMock{}
	handler := NewBillsHandler(mockSvc)

	c, w := newEventTestContext(t, http.MethodPatch, "/events/ev-1/bills",
		map[string]string{"state": "shredded"})
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}
	c.Set(middleware.ContextActorKey, models.Actor{ID: "slo-1", Role: models.RoleRoomOffice})

	handler.Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.called)
}

func TestBillsHandlerUpdateRequiresAuth(t *testing.T) {
	handler := NewBillsHandler(&billsServiceMock{})

	c, w := newEventTestContext(t, http.MethodPatch, "/events/ev-1/bills",
		dto.UpdateBillsRequest{State: models.BillsSubmitted})
	c.Params = gin.Params{{Key: "id", Value: "ev-1"}}

	handler.Update(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBillsHandlerList(t *testing.T) {
	mockSvc := &billsServiceMock{entries: []dto.BillsStatusEntry{{EventID: "ev-1", State: models.BillsProcessed}}}
	handler := NewBillsHandler(mockSvc)

	c, w := newEventTestContext(t, http.MethodGet, "/events/bills", nil)
	c.Set(middleware.ContextActorKey, models.Actor{ID: "fin-1", Role: models.RoleFinance})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBillsHandlerListForbiddenForClubs(t *testing.T) {
	mockSvc := &billsServiceMock{err: appErrors.ErrForbidden}
	handler := NewBillsHandler(mockSvc)

	c, w := newEventTestContext(t, http.MethodGet, "/events/bills", nil)
	c.Set(middleware.ContextActorKey, models.Actor{ID: "cultural-club", Role: models.RoleClub})

	handler.List(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/response"
)

type billsService interface {
	UpdateStatus(ctx context.Context, actor models.Actor, eventID string, req dto.UpdateBillsRequest) (*models.Event, error)
	ListStatuses(ctx context.Context, actor models.Actor) ([]dto.BillsStatusEntry, error)
}

// BillsHandler exposes the post-event bill processing track.
type BillsHandler struct {
	bills    billsService
	validate *validator.Validate
}

// NewBillsHandler constructs the handler.
func NewBillsHandler(bills billsService) *BillsHandler {
	return &BillsHandler{bills: bills, validate: validator.New()}
}

// Update godoc
// @Summary Progress the bill processing state of a finished event
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateBillsRequest true "Bills payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/bills [patch]
func (h *BillsHandler) Update(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bills payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	event, err := h.bills.UpdateStatus(c.Request.Context(), *actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// List godoc
// @Summary Bill processing overview for finished budgeted events
// @Tags Bills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/bills [get]
func (h *BillsHandler) List(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	entries, err := h.bills.ListStatuses(c.Request.Context(), *actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

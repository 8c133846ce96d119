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

type eventReportService interface {
	Submit(ctx context.Context, actor models.Actor, eventID string, req dto.SubmitEventReportRequest) (*models.EventReport, error)
	Get(ctx context.Context, actor models.Actor, eventID string) (*models.EventReport, error)
}

// EventReportHandler exposes the post-event report track.
type EventReportHandler struct {
	reports  eventReportService
	validate *validator.Validate
}

// NewEventReportHandler constructs the handler.
func NewEventReportHandler(reports eventReportService) *EventReportHandler {
	return &EventReportHandler{reports: reports, validate: validator.New()}
}

// Submit godoc
// @Summary File the post-event report for an ended, approved event
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.SubmitEventReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /events/{id}/report [post]
func (h *EventReportHandler) Submit(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitEventReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid report payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	report, err := h.reports.Submit(c.Request.Context(), *actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Get godoc
// @Summary Fetch the post-event report of an event
// @Tags Reports
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/report [get]
func (h *EventReportHandler) Get(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	report, err := h.reports.Get(c.Request.Context(), *actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

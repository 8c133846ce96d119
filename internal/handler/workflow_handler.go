package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/service"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/response"
)

type workflowService interface {
	Transition(ctx context.Context, eventID string, actor models.Actor, action service.Action, params service.TransitionParams) (*models.Event, error)
	Decide(ctx context.Context, eventID string, actor models.Actor, req dto.DecideRequest) (*models.Event, error)
	Reject(ctx context.Context, eventID string, actor models.Actor, req dto.RejectRequest) (*models.Event, error)
}

// WorkflowHandler exposes the approval pipeline transitions.
type WorkflowHandler struct {
	workflow workflowService
	metrics  *service.MetricsService
	validate *validator.Validate
}

// NewWorkflowHandler constructs the handler.
func NewWorkflowHandler(workflow workflowService, metrics *service.MetricsService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow, metrics: metrics, validate: validator.New()}
}

// Submit godoc
// @Summary Submit a draft event for approval
// @Tags Workflow
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/submit [post]
func (h *WorkflowHandler) Submit(c *gin.Context) {
	h.transition(c, service.ActionSubmit, service.TransitionParams{})
}

// Decide godoc
// @Summary Record the council decision on a pending event
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.DecideRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/decide [post]
func (h *WorkflowHandler) Decide(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "approver id is required"))
		return
	}
	event, err := h.workflow.Decide(c.Request.Context(), c.Param("id"), *actor, req)
	h.observe(service.ActionDecide, event, err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Reject godoc
// @Summary Send a pending event back to its club
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.RejectRequest true "Rejection payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/reject [post]
func (h *WorkflowHandler) Reject(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a rejection reason is required"))
		return
	}
	event, err := h.workflow.Reject(c.Request.Context(), c.Param("id"), *actor, req)
	h.observe(service.ActionReject, event, err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// ApproveBudget godoc
// @Summary Approve the budget of a pending event
// @Tags Workflow
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/approve-budget [post]
func (h *WorkflowHandler) ApproveBudget(c *gin.Context) {
	h.transition(c, service.ActionApproveBudget, service.TransitionParams{})
}

// ApproveRoom godoc
// @Summary Approve the room booking of a pending event
// @Tags Workflow
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/approve-room [post]
func (h *WorkflowHandler) ApproveRoom(c *gin.Context) {
	h.transition(c, service.ActionApproveRoom, service.TransitionParams{})
}

// Refresh godoc
// @Summary Re-fire notifications for an approved event
// @Tags Workflow
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/refresh [post]
func (h *WorkflowHandler) Refresh(c *gin.Context) {
	h.transition(c, service.ActionRefresh, service.TransitionParams{})
}

// Delete godoc
// @Summary Logically delete an event
// @Tags Workflow
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *WorkflowHandler) Delete(c *gin.Context) {
	h.transition(c, service.ActionDelete, service.TransitionParams{})
}

func (h *WorkflowHandler) transition(c *gin.Context, action service.Action, params service.TransitionParams) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	event, err := h.workflow.Transition(c.Request.Context(), c.Param("id"), *actor, action, params)
	h.observe(action, event, err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

func (h *WorkflowHandler) observe(action service.Action, event *models.Event, err error) {
	if h.metrics == nil {
		return
	}
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrConflict.Code) {
			h.metrics.ObserveConflict()
		}
		return
	}
	h.metrics.ObserveTransition(string(action), string(event.State))
}

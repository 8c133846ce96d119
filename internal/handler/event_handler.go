package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/response"
)

type eventService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateEventRequest) (*models.Event, error)
	Edit(ctx context.Context, actor models.Actor, eventID string, req dto.EditEventRequest) (*models.Event, error)
	Get(ctx context.Context, viewer *models.Actor, id string) (*models.Event, error)
	GetByCode(ctx context.Context, viewer *models.Actor, code string) (*models.Event, error)
	ListIncomplete(ctx context.Context, actor models.Actor, clubID string) ([]models.Event, error)
	ListPending(ctx context.Context, actor models.Actor) ([]models.Event, error)
	ReassignClub(ctx context.Context, actor models.Actor, req dto.ReassignClubRequest) (int64, error)
}

type listingService interface {
	ListEvents(ctx context.Context, viewer *models.Actor, req dto.ListEventsRequest) ([]models.Event, error)
}

// EventHandler exposes event CRUD and listing endpoints.
type EventHandler struct {
	events   eventService
	listing  listingService
	validate *validator.Validate
}

// NewEventHandler constructs the handler.
func NewEventHandler(events eventService, listing listingService) *EventHandler {
	return &EventHandler{events: events, listing: listing, validate: validator.New()}
}

// Create godoc
// @Summary Register a new event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid event payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	event, err := h.events.Create(c.Request.Context(), *actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Edit godoc
// @Summary Edit event details
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.EditEventRequest true "Partial event payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [patch]
func (h *EventHandler) Edit(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.EditEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid event payload"))
		return
	}
	event, err := h.events.Edit(c.Request.Context(), *actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Get godoc
// @Summary Fetch one event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// GetByCode godoc
// @Summary Fetch one event by its code
// @Tags Events
// @Produce json
// @Param code path string true "Event code"
// @Success 200 {object} response.Envelope
// @Router /events/code/{code} [get]
func (h *EventHandler) GetByCode(c *gin.Context) {
	event, err := h.events.GetByCode(c.Request.Context(), actorFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// List godoc
// @Summary List events bucketed as ongoing, upcoming, past
// @Tags Events
// @Produce json
// @Param clubId query string false "Club ID"
// @Param name query string false "Name substring (paginated queries only)"
// @Param public query bool false "Force the public view"
// @Param paginated query bool false "Paginate the past bucket"
// @Param skip query int false "Past bucket offset"
// @Param limit query int false "Past bucket page size"
// @Param pastMonths query int false "Past window in months"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	req := dto.ListEventsRequest{
		ClubID:    c.Query("clubId"),
		Name:      c.Query("name"),
		Public:    c.Query("public") == "true",
		Paginated: c.Query("paginated") == "true",
	}
	var err error
	if req.Skip, err = queryInt(c, "skip", 0); err != nil {
		response.Error(c, err)
		return
	}
	if req.Limit, err = queryInt(c, "limit", 0); err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("pastMonths"); raw != "" {
		months, convErr := strconv.Atoi(raw)
		if convErr != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pastMonths must be an integer"))
			return
		}
		req.PastMonths = &months
	}

	events, err := h.listing.ListEvents(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// ListIncomplete godoc
// @Summary List a club's draft events
// @Tags Events
// @Produce json
// @Param clubId query string true "Club ID"
// @Success 200 {object} response.Envelope
// @Router /events/incomplete [get]
func (h *EventHandler) ListIncomplete(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	clubID := c.Query("clubId")
	if clubID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "clubId is required"))
		return
	}
	events, err := h.events.ListIncomplete(c.Request.Context(), *actor, clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// ListPending godoc
// @Summary List the approval queue for the caller's desk
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/pending [get]
func (h *EventHandler) ListPending(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	events, err := h.events.ListPending(c.Request.Context(), *actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Reassign godoc
// @Summary Bulk-move events between club ids
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.ReassignClubRequest true "Reassignment payload"
// @Success 200 {object} response.Envelope
// @Router /events/reassign [post]
func (h *EventHandler) Reassign(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReassignClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reassignment payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	moved, err := h.events.ReassignClub(c.Request.Context(), *actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"moved": moved}, nil)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return value, nil
}

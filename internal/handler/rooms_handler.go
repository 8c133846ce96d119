package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/response"
)

type roomsService interface {
	AvailableRooms(ctx context.Context, req dto.AvailableRoomsRequest) ([]models.RoomAvailability, error)
	ClashingEvents(ctx context.Context, eventID string, filterByLocation bool) ([]models.Event, error)
}

// RoomsHandler exposes room availability and clash queries.
type RoomsHandler struct {
	rooms roomsService
}

// NewRoomsHandler constructs the handler.
func NewRoomsHandler(rooms roomsService) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

// Available godoc
// @Summary Report which catalog rooms are free for an interval
// @Tags Rooms
// @Produce json
// @Param start query string true "Interval start (RFC3339)"
// @Param end query string true "Interval end (RFC3339)"
// @Param excludeEventId query string false "Event whose own bookings are ignored"
// @Success 200 {object} response.Envelope
// @Router /rooms/available [get]
func (h *RoomsHandler) Available(c *gin.Context) {
	start, err := queryTime(c, "start")
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := queryTime(c, "end")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.rooms.AvailableRooms(c.Request.Context(), dto.AvailableRoomsRequest{
		Start:          start,
		End:            end,
		ExcludeEventID: c.Query("excludeEventId"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Clashes godoc
// @Summary List approved events clashing with the given event
// @Tags Rooms
// @Produce json
// @Param id path string true "Event ID"
// @Param filterByLocation query bool false "Only report events sharing a room"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/clashes [get]
func (h *RoomsHandler) Clashes(c *gin.Context) {
	clashes, err := h.rooms.ClashingEvents(c.Request.Context(), c.Param("id"), c.Query("filterByLocation") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clashes, nil)
}

func queryTime(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, name+" is required")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, name+" must be an RFC3339 timestamp")
	}
	return t, nil
}

package dto

import "time"

// ListEventsRequest filters the temporal listing.
type ListEventsRequest struct {
	ClubID     string `json:"clubId"`
	Name       string `json:"name"`
	Public     bool   `json:"public"`
	Paginated  bool   `json:"paginated"`
	Skip       int    `json:"skip"`
	Limit      int    `json:"limit"`
	PastMonths *int   `json:"pastMonths"`
}

// AvailableRoomsRequest asks which catalog rooms are free for an interval.
type AvailableRoomsRequest struct {
	Start          time.Time `json:"start" form:"start" validate:"required"`
	End            time.Time `json:"end" form:"end" validate:"required"`
	ExcludeEventID string    `json:"excludeEventId" form:"excludeEventId"`
}

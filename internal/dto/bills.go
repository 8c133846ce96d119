package dto

import "github.com/Clubs-Council-IIITH/events/internal/models"

// UpdateBillsRequest progresses the post-event bill processing track.
type UpdateBillsRequest struct {
	State   models.BillsState `json:"state" validate:"required,oneof=not_submitted incomplete submitted processed"`
	Comment string            `json:"comment" validate:"max=1000"`
}

// BillsStatusEntry summarises one event's bill processing state.
type BillsStatusEntry struct {
	EventID   string            `json:"eventId"`
	EventName string            `json:"eventName"`
	ClubID    string            `json:"clubId"`
	State     models.BillsState `json:"state"`
	UpdatedAt *string           `json:"updatedAt,omitempty"`
	Comment   *string           `json:"comment,omitempty"`
}

package dto

import (
	"time"

	"github.com/Clubs-Council-IIITH/events/internal/models"
)

// CreateEventRequest carries the payload for registering a new event.
type CreateEventRequest struct {
	ClubID        string   `json:"clubId" validate:"required"`
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Mode          string   `json:"mode" validate:"omitempty,oneof=hybrid online offline"`
	Audience      []string `json:"audience"`
	CollabClubIDs []string `json:"collabClubIds"`

	StartAt time.Time `json:"startAt" validate:"required"`
	EndAt   time.Time `json:"endAt" validate:"required"`

	Locations        []models.Room `json:"locations"`
	AltLocations     []models.Room `json:"altLocations"`
	OtherLocation    *string       `json:"otherLocation"`
	OtherAltLocation *string       `json:"otherAltLocation"`

	POC                string              `json:"poc" validate:"required"`
	Link               *string             `json:"link" validate:"omitempty,url"`
	Equipment          *string             `json:"equipment"`
	Additional         *string             `json:"additional"`
	Population         int                 `json:"population" validate:"min=0"`
	ExternalPopulation int                 `json:"externalPopulation" validate:"min=0"`
	Budget             []models.BudgetItem `json:"budget" validate:"dive"`
	Sponsors           []models.Sponsor    `json:"sponsors" validate:"dive"`
}

// EditEventRequest carries a partial update; nil fields are left untouched.
type EditEventRequest struct {
	ClubID        string    `json:"clubId" validate:"required"`
	Name          *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	Mode          *string   `json:"mode" validate:"omitempty,oneof=hybrid online offline"`
	Audience      *[]string `json:"audience"`
	CollabClubIDs *[]string `json:"collabClubIds"`

	StartAt *time.Time `json:"startAt"`
	EndAt   *time.Time `json:"endAt"`

	Locations        *[]models.Room `json:"locations"`
	AltLocations     *[]models.Room `json:"altLocations"`
	OtherLocation    *string        `json:"otherLocation"`
	OtherAltLocation *string        `json:"otherAltLocation"`

	POC                *string              `json:"poc"`
	Link               *string              `json:"link" validate:"omitempty,url"`
	Equipment          *string              `json:"equipment"`
	Additional         *string              `json:"additional"`
	Population         *int                 `json:"population" validate:"omitempty,min=0"`
	ExternalPopulation *int                 `json:"externalPopulation" validate:"omitempty,min=0"`
	Budget             *[]models.BudgetItem `json:"budget" validate:"omitempty,dive"`
	Sponsors           *[]models.Sponsor    `json:"sponsors" validate:"omitempty,dive"`
}

// ReassignClubRequest moves all events of one club id to another.
type ReassignClubRequest struct {
	OldClubID string `json:"oldClubId" validate:"required"`
	NewClubID string `json:"newClubId" validate:"required"`
	Secret    string `json:"secret" validate:"required"`
}

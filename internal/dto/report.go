package dto

import (
	"time"

	"github.com/Clubs-Council-IIITH/events/pkg/export"
)

// ReportRequest describes an events data export.
type ReportRequest struct {
	ClubID    string        `json:"clubId"`
	Status    string        `json:"status" validate:"required,oneof=pending approved all"`
	Format    export.Format `json:"format" validate:"required,oneof=csv pdf"`
	Fields    []string      `json:"fields" validate:"required,min=1"`
	StartDate *time.Time    `json:"startDate"`
	EndDate   *time.Time    `json:"endDate"`
}

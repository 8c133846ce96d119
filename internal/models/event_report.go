package models

import "time"

// EventReport is the club's post-event writeup. At most one exists per event,
// and it can only be filed once the event is approved and has ended.
type EventReport struct {
	ID         string  `db:"id" json:"id"`
	EventID    string  `db:"event_id" json:"eventId"`
	Summary    string  `db:"summary" json:"summary"`
	Attendance int     `db:"attendance" json:"attendance"`
	PhotosLink *string `db:"photos_link" json:"photosLink,omitempty"`
	Feedback   *string `db:"feedback" json:"feedback,omitempty"`

	SubmittedBy string    `db:"submitted_by" json:"submittedBy"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}

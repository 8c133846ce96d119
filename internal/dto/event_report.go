package dto

// SubmitEventReportRequest files the post-event report for an ended,
// approved event.
type SubmitEventReportRequest struct {
	Summary     string  `json:"summary" validate:"required,min=1,max=10000"`
	Attendance  int     `json:"attendance" validate:"min=0"`
	PhotosLink  *string `json:"photosLink" validate:"omitempty,url"`
	Feedback    *string `json:"feedback" validate:"omitempty,max=5000"`
	SubmittedBy string  `json:"submittedBy" validate:"required"`
}

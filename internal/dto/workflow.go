package dto

// DecideRequest is the council's decision on a pending event. The approver id
// is mandatory; the overrides let the council flip either gate directly.
type DecideRequest struct {
	ApproverID     string `json:"approverId" validate:"required"`
	BudgetOverride *bool  `json:"budgetOverride"`
	RoomOverride   *bool  `json:"roomOverride"`
}

// RejectRequest sends an event back to its club with a reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

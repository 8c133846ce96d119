package models

// Pagination describes the slice of the Past bucket that was returned.
// Ongoing and Upcoming buckets are always returned in full.
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Total int `json:"total,omitempty"`
}

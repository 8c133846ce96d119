package models

// Role identifies which desk of the approval pipeline an actor sits at.
type Role string

const (
	RoleClub       Role = "club"
	RoleCouncil    Role = "council"
	RoleFinance    Role = "finance"
	RoleRoomOffice Role = "room_office"
)

// ValidRole reports whether the role is one the pipeline recognises.
func ValidRole(r Role) bool {
	switch r {
	case RoleClub, RoleCouncil, RoleFinance, RoleRoomOffice:
		return true
	}
	return false
}

// Actor is the authenticated identity attempting an action.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// OwnsClub reports whether the actor is the club identified by clubID.
func (a Actor) OwnsClub(clubID string) bool {
	return a.Role == RoleClub && a.ID == clubID
}

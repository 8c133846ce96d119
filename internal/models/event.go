package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// EventState enumerates the approval pipeline states.
type EventState string

const (
	StateIncomplete     EventState = "incomplete"
	StatePendingCouncil EventState = "pending_council"
	StatePendingBudget  EventState = "pending_budget"
	StatePendingRoom    EventState = "pending_room"
	StateApproved       EventState = "approved"
	StateDeleted        EventState = "deleted"
)

// Label returns the human readable state name.
func (s EventState) Label() string {
	switch s {
	case StateIncomplete:
		return "Incomplete"
	case StatePendingCouncil:
		return "Pending Council Approval"
	case StatePendingBudget:
		return "Pending Budget Approval"
	case StatePendingRoom:
		return "Pending Room Approval"
	case StateApproved:
		return "Approved"
	case StateDeleted:
		return "Deleted"
	}
	return string(s)
}

// ClubCategory changes which approval tracks an event must pass.
type ClubCategory string

const (
	CategoryClub        ClubCategory = "club"
	CategoryStudentBody ClubCategory = "student_body"
	CategoryAdminBody   ClubCategory = "admin_body"
)

// EventMode enumerates how an event is conducted.
type EventMode string

const (
	ModeHybrid  EventMode = "hybrid"
	ModeOnline  EventMode = "online"
	ModeOffline EventMode = "offline"
)

// AudienceInternal marks events hidden from public listings.
const AudienceInternal = "internal"

// Audiences lists the recognised audience tags.
var Audiences = []string{"ug1", "ug2", "ug3", "ug4", "pg", "stf", "fac", AudienceInternal}

// Room identifies a bookable location.
type Room string

// Fixed venue catalog. RoomOther is a free-text escape value and carries no
// catalog semantics for conflict resolution.
const (
	RoomH101      Room = "h101"
	RoomH102      Room = "h102"
	RoomH103      Room = "h103"
	RoomH104      Room = "h104"
	RoomH105      Room = "h105"
	RoomH201      Room = "h201"
	RoomH202      Room = "h202"
	RoomH203      Room = "h203"
	RoomH204      Room = "h204"
	RoomH205      Room = "h205"
	RoomH301      Room = "h301"
	RoomH302      Room = "h302"
	RoomH303      Room = "h303"
	RoomH304      Room = "h304"
	RoomVA3117    Room = "va3_117"
	RoomVSH1      Room = "vsh1"
	RoomVSH2      Room = "vsh2"
	RoomAmphi     Room = "amphi"
	RoomWarehouse Room = "warehouse"
	RoomCIEGaming Room = "cieg"
	RoomSaranga   Room = "sarg"
	RoomFelicity  Room = "felig"
	RoomFootball  Room = "footg"
	RoomGuest     Room = "guest"
	RoomKRBAudi   Room = "krba"
	RoomLM22      Room = "lm22"
	RoomSM24      Room = "sm24"
	RoomSM32      Room = "sm32"
	RoomLM34      Room = "lm34"
	RoomD101      Room = "d101"
	RoomOther     Room = "other"
)

var roomLabels = map[Room]string{
	RoomH101:      "Himalaya 101",
	RoomH102:      "Himalaya 102",
	RoomH103:      "Himalaya 103",
	RoomH104:      "Himalaya 104",
	RoomH105:      "Himalaya 105",
	RoomH201:      "Himalaya 201",
	RoomH202:      "Himalaya 202",
	RoomH203:      "Himalaya 203",
	RoomH204:      "Himalaya 204",
	RoomH205:      "Himalaya 205",
	RoomH301:      "Himalaya 301",
	RoomH302:      "Himalaya 302",
	RoomH303:      "Himalaya 303",
	RoomH304:      "Himalaya 304",
	RoomVA3117:    "Vindhya A3 117",
	RoomVSH1:      "Vindhya SH1",
	RoomVSH2:      "Vindhya SH2",
	RoomAmphi:     "Amphitheatre",
	RoomWarehouse: "Bakul Warehouse",
	RoomCIEGaming: "CIE Gaming",
	RoomSaranga:   "Saranga Hall",
	RoomFelicity:  "Felicity Ground",
	RoomFootball:  "Football Ground",
	RoomGuest:     "Guest House",
	RoomKRBAudi:   "KRB Auditorium",
	RoomLM22:      "LM-22, KRB",
	RoomSM24:      "SM-24, KRB",
	RoomSM32:      "SM-32, KRB",
	RoomLM34:      "LM-34, KRB",
	RoomD101:      "D101, T-Hub",
	RoomOther:     "Other",
}

// Label returns the display name for a room.
func (r Room) Label() string {
	if label, ok := roomLabels[r]; ok {
		return label
	}
	return string(r)
}

// InCatalog reports whether the room is a real bookable venue.
func (r Room) InCatalog() bool {
	_, ok := roomLabels[r]
	return ok && r != RoomOther
}

var roomCatalog = []Room{
	RoomH101, RoomH102, RoomH103, RoomH104, RoomH105,
	RoomH201, RoomH202, RoomH203, RoomH204, RoomH205,
	RoomH301, RoomH302, RoomH303, RoomH304,
	RoomVA3117, RoomVSH1, RoomVSH2,
	RoomAmphi, RoomWarehouse, RoomCIEGaming,
	RoomSaranga, RoomFelicity, RoomFootball, RoomGuest,
	RoomKRBAudi, RoomLM22, RoomSM24, RoomSM32, RoomLM34,
	RoomD101,
}

// RoomCatalog returns the fixed set of bookable rooms in display order,
// excluding RoomOther.
func RoomCatalog() []Room {
	catalog := make([]Room, len(roomCatalog))
	copy(catalog, roomCatalog)
	return catalog
}

// RoomList is a set of rooms persisted as a Postgres text array.
type RoomList []Room

// Value implements driver.Valuer.
func (l RoomList) Value() (driver.Value, error) {
	strs := make([]string, len(l))
	for i, room := range l {
		strs[i] = string(room)
	}
	return pq.StringArray(strs).Value()
}

// Scan implements sql.Scanner.
func (l *RoomList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan room list: %w", err)
	}
	rooms := make(RoomList, len(arr))
	for i, s := range arr {
		rooms[i] = Room(s)
	}
	*l = rooms
	return nil
}

// Contains reports whether the list includes the given room.
func (l RoomList) Contains(room Room) bool {
	for _, r := range l {
		if r == room {
			return true
		}
	}
	return false
}

// BudgetItem is a single budget line of an event.
type BudgetItem struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Advance     bool    `json:"advance"`
}

// BudgetList is persisted as a JSONB column.
type BudgetList []BudgetItem

// Value implements driver.Valuer.
func (l BudgetList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *BudgetList) Scan(src interface{}) error {
	return scanJSON(src, l, "budget list")
}

// Total sums the budget line amounts.
func (l BudgetList) Total() float64 {
	var total float64
	for _, item := range l {
		total += item.Amount
	}
	return total
}

// Sponsor is a single sponsorship line of an event.
type Sponsor struct {
	Name                string  `json:"name"`
	Website             string  `json:"website,omitempty"`
	Amount              float64 `json:"amount"`
	PreviouslySponsored bool    `json:"previouslySponsored"`
}

// SponsorList is persisted as a JSONB column.
type SponsorList []Sponsor

// Value implements driver.Valuer.
func (l SponsorList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SponsorList) Scan(src interface{}) error {
	return scanJSON(src, l, "sponsor list")
}

func scanJSON(src, dest interface{}, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("scan %s: unsupported type %T", what, src)
	}
}

// BillsState tracks post-event bill processing by the room-booking office.
type BillsState string

const (
	BillsNotSubmitted BillsState = "not_submitted"
	BillsIncomplete   BillsState = "incomplete"
	BillsSubmitted    BillsState = "submitted"
	BillsProcessed    BillsState = "processed"
)

// Label returns the human readable bills state name.
func (s BillsState) Label() string {
	switch s {
	case BillsNotSubmitted:
		return "Not Submitted"
	case BillsIncomplete:
		return "Incomplete"
	case BillsSubmitted:
		return "Submitted"
	case BillsProcessed:
		return "Processed by Room Office"
	}
	return string(s)
}

// EventStatus carries the approval pipeline bookkeeping of an event. The
// state must stay derivable from the two gates plus the club category; all
// writes go through the workflow transition table.
type EventStatus struct {
	State         EventState `db:"status_state" json:"state"`
	BudgetCleared bool       `db:"budget_cleared" json:"budgetCleared"`
	RoomCleared   bool       `db:"room_cleared" json:"roomCleared"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`

	CouncilApprover   *string    `db:"council_approver" json:"councilApprover,omitempty"`
	CouncilApprovedAt *time.Time `db:"council_approved_at" json:"councilApprovedAt,omitempty"`

	FinanceApprover   *string    `db:"finance_approver" json:"financeApprover,omitempty"`
	FinanceApprovedAt *time.Time `db:"finance_approved_at" json:"financeApprovedAt,omitempty"`

	RoomApprover   *string    `db:"room_approver" json:"roomApprover,omitempty"`
	RoomApprovedAt *time.Time `db:"room_approved_at" json:"roomApprovedAt,omitempty"`

	LastUpdatedBy *string    `db:"last_updated_by" json:"lastUpdatedBy,omitempty"`
	LastUpdatedAt *time.Time `db:"last_updated_at" json:"lastUpdatedAt,omitempty"`

	DeletedBy *string    `db:"deleted_by" json:"deletedBy,omitempty"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// Event is one record in the events store.
type Event struct {
	ID            string         `db:"id" json:"id"`
	Code          string         `db:"code" json:"code"`
	ClubID        string         `db:"club_id" json:"clubId"`
	CollabClubIDs pq.StringArray `db:"collab_club_ids" json:"collabClubIds,omitempty"`
	Category      ClubCategory   `db:"category" json:"category"`

	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description,omitempty"`
	Mode        EventMode      `db:"mode" json:"mode"`
	Audience    pq.StringArray `db:"audience" json:"audience,omitempty"`

	StartAt time.Time `db:"start_at" json:"startAt"`
	EndAt   time.Time `db:"end_at" json:"endAt"`

	Locations        RoomList `db:"locations" json:"locations,omitempty"`
	AltLocations     RoomList `db:"alt_locations" json:"altLocations,omitempty"`
	OtherLocation    *string  `db:"other_location" json:"otherLocation,omitempty"`
	OtherAltLocation *string  `db:"other_alt_location" json:"otherAltLocation,omitempty"`

	POC                string  `db:"poc" json:"poc,omitempty"`
	Link               *string `db:"link" json:"link,omitempty"`
	Equipment          *string `db:"equipment" json:"equipment,omitempty"`
	Additional         *string `db:"additional" json:"additional,omitempty"`
	Population         int     `db:"population" json:"population,omitempty"`
	ExternalPopulation int     `db:"external_population" json:"externalPopulation,omitempty"`

	Budget   BudgetList  `db:"budget" json:"budget,omitempty"`
	Sponsors SponsorList `db:"sponsors" json:"sponsors,omitempty"`

	EventStatus

	BillsState     BillsState `db:"bills_state" json:"billsState,omitempty"`
	BillsUpdatedAt *time.Time `db:"bills_updated_at" json:"billsUpdatedAt,omitempty"`
	BillsComment   *string    `db:"bills_comment" json:"billsComment,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Status returns a copy of the event's approval status block.
func (e *Event) Status() EventStatus {
	return e.EventStatus
}

// BookedRooms returns the catalog rooms the event occupies, dropping the
// free-text escape value.
func (e *Event) BookedRooms() RoomList {
	rooms := make(RoomList, 0, len(e.Locations))
	for _, room := range e.Locations {
		if room.InCatalog() {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// TrimPublic hides fields that unprivileged viewers must not see and reduces
// the status block to its state.
func (e *Event) TrimPublic() {
	e.Equipment = nil
	e.Additional = nil
	e.Population = 0
	e.ExternalPopulation = 0
	e.POC = ""
	e.Budget = nil
	e.Sponsors = nil
	e.BillsState = ""
	e.BillsUpdatedAt = nil
	e.BillsComment = nil
	state := e.State
	e.EventStatus = EventStatus{State: state}
}

// TimeBucket partitions events relative to "now".
type TimeBucket string

const (
	BucketOngoing  TimeBucket = "ongoing"
	BucketUpcoming TimeBucket = "upcoming"
	BucketPast     TimeBucket = "past"
)

// EventFilter narrows event queries.
type EventFilter struct {
	ClubID          string
	States          []EventState
	ExcludeInternal bool
	Name            string
	WindowStart     *time.Time
	WindowEnd       *time.Time
	PastOldest      *time.Time
	RequireBudget   bool
	EndedBefore     *time.Time
}

// RoomAvailability reports whether one catalog room is free for an interval.
type RoomAvailability struct {
	Room      Room   `json:"room"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Clubs-Council-IIITH/events/internal/models"
)

const eventColumns = `id, code, club_id, collab_club_ids, category, name, description, mode, audience,
       start_at, end_at, locations, alt_locations, other_location, other_alt_location,
       poc, link, equipment, additional, population, external_population, budget, sponsors,
       status_state, budget_cleared, room_cleared, submitted_at,
       council_approver, council_approved_at, finance_approver, finance_approved_at,
       room_approver, room_approved_at, last_updated_by, last_updated_at, deleted_by, deleted_at,
       bills_state, bills_updated_at, bills_comment, created_at, updated_at`

// EventRepository persists events and their approval status.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.State == "" {
		event.State = models.StateIncomplete
	}
	if event.BillsState == "" {
		event.BillsState = models.BillsNotSubmitted
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO events
	(id, code, club_id, collab_club_ids, category, name, description, mode, audience,
	 start_at, end_at, locations, alt_locations, other_location, other_alt_location,
	 poc, link, equipment, additional, population, external_population, budget, sponsors,
	 status_state, budget_cleared, room_cleared, submitted_at,
	 council_approver, council_approved_at, finance_approver, finance_approved_at,
	 room_approver, room_approved_at, last_updated_by, last_updated_at, deleted_by, deleted_at,
	 bills_state, bills_updated_at, bills_comment, created_at, updated_at)
	VALUES (:id, :code, :club_id, :collab_club_ids, :category, :name, :description, :mode, :audience,
	 :start_at, :end_at, :locations, :alt_locations, :other_location, :other_alt_location,
	 :poc, :link, :equipment, :additional, :population, :external_population, :budget, :sponsors,
	 :status_state, :budget_cleared, :room_cleared, :submitted_at,
	 :council_approver, :council_approved_at, :finance_approver, :finance_approved_at,
	 :room_approver, :room_approved_at, :last_updated_by, :last_updated_at, :deleted_by, :deleted_at,
	 :bills_state, :bills_updated_at, :bills_comment, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetByID fetches an event by identifier.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1", eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByCode fetches an event by its human readable code.
func (r *EventRepository) GetByCode(ctx context.Context, code string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE code = $1", eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, code); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateDetails writes the mutable descriptive fields of an event.
func (r *EventRepository) UpdateDetails(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET
	name = :name, description = :description, mode = :mode, audience = :audience,
	collab_club_ids = :collab_club_ids, start_at = :start_at, end_at = :end_at,
	locations = :locations, alt_locations = :alt_locations,
	other_location = :other_location, other_alt_location = :other_alt_location,
	poc = :poc, link = :link, equipment = :equipment, additional = :additional,
	population = :population, external_population = :external_population,
	budget = :budget, sponsors = :sponsors,
	last_updated_by = :last_updated_by, last_updated_at = :last_updated_at,
	updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus performs the single conditional status write of a workflow
// transition. The update only applies while the stored state still matches
// the state observed at read time; zero affected rows means a concurrent
// transition won the race (or the event vanished) and surfaces as ErrNoRows.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, expected models.EventState, status models.EventStatus) error {
	const query = `UPDATE events SET
	status_state = $1, budget_cleared = $2, room_cleared = $3, submitted_at = $4,
	council_approver = $5, council_approved_at = $6,
	finance_approver = $7, finance_approved_at = $8,
	room_approver = $9, room_approved_at = $10,
	last_updated_by = $11, last_updated_at = $12,
	deleted_by = $13, deleted_at = $14,
	updated_at = $15
	WHERE id = $16 AND status_state = $17`
	result, err := r.db.ExecContext(ctx, query,
		status.State, status.BudgetCleared, status.RoomCleared, status.SubmittedAt,
		status.CouncilApprover, status.CouncilApprovedAt,
		status.FinanceApprover, status.FinanceApprovedAt,
		status.RoomApprover, status.RoomApprovedAt,
		status.LastUpdatedBy, status.LastUpdatedAt,
		status.DeletedBy, status.DeletedAt,
		time.Now().UTC(),
		id, expected,
	)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateBills progresses the post-event bill processing fields. Only approved
// events accept bill updates.
func (r *EventRepository) UpdateBills(ctx context.Context, id string, state models.BillsState, comment *string, at time.Time) error {
	const query = `UPDATE events SET bills_state = $1, bills_comment = $2, bills_updated_at = $3, updated_at = $4
	WHERE id = $5 AND status_state = $6`
	result, err := r.db.ExecContext(ctx, query, state, comment, at, time.Now().UTC(), id, models.StateApproved)
	if err != nil {
		return fmt.Errorf("update event bills: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event bills rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns events matching the filter ordered by start time ascending.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	where, args := buildEventFilter(filter)
	query := fmt.Sprintf("SELECT %s FROM events WHERE %s ORDER BY start_at ASC", eventColumns, where)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListBucket returns the events of one temporal bucket in its presentation
// order. Skip and limit apply only to the past bucket; callers pass zero
// values for the other buckets.
func (r *EventRepository) ListBucket(ctx context.Context, filter models.EventFilter, bucket models.TimeBucket, now time.Time, skip, limit int) ([]models.Event, error) {
	where, args := buildEventFilter(filter)

	var clause, order string
	switch bucket {
	case models.BucketOngoing:
		args = append(args, now)
		clause = fmt.Sprintf("start_at <= $%d AND end_at >= $%d", len(args), len(args))
		order = "end_at ASC"
	case models.BucketUpcoming:
		args = append(args, now)
		clause = fmt.Sprintf("start_at > $%d", len(args))
		order = "start_at ASC"
	case models.BucketPast:
		args = append(args, now)
		clause = fmt.Sprintf("end_at < $%d", len(args))
		if filter.PastOldest != nil {
			args = append(args, *filter.PastOldest)
			clause += fmt.Sprintf(" AND end_at >= $%d", len(args))
		}
		order = "end_at DESC"
	default:
		return nil, fmt.Errorf("unknown time bucket: %s", bucket)
	}

	query := fmt.Sprintf("SELECT %s FROM events WHERE %s AND %s ORDER BY %s", eventColumns, where, clause, order)
	if bucket == models.BucketPast && limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, skip)
	}

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list %s events: %w", bucket, err)
	}
	return events, nil
}

// ListApprovedOverlapping returns approved events whose interval overlaps
// [start, end]. Touching endpoints count as overlapping.
func (r *EventRepository) ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events
	WHERE status_state = $1 AND start_at <= $2 AND end_at >= $3
	ORDER BY start_at ASC`, eventColumns)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, models.StateApproved, end, start); err != nil {
		return nil, fmt.Errorf("list overlapping events: %w", err)
	}
	return events, nil
}

// CountClubEvents counts events of a club starting within [start, end].
// Used to allocate the per-club fiscal year sequence number.
func (r *EventRepository) CountClubEvents(ctx context.Context, clubID string, start, end time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM events WHERE club_id = $1 AND start_at >= $2 AND start_at <= $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, clubID, start, end); err != nil {
		return 0, fmt.Errorf("count club events: %w", err)
	}
	return count, nil
}

// ReassignClub moves every event of one club id to another and reports how
// many rows changed.
func (r *EventRepository) ReassignClub(ctx context.Context, oldClubID, newClubID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET club_id = $1, updated_at = $2 WHERE club_id = $3`,
		newClubID, time.Now().UTC(), oldClubID)
	if err != nil {
		return 0, fmt.Errorf("reassign club events: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign club rows: %w", err)
	}
	return affected, nil
}

// buildEventFilter assembles the WHERE clause shared by listing queries.
func buildEventFilter(filter models.EventFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := make([]interface{}, 0, 8)

	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status_state IN (%s)", strings.Join(placeholders, ",")))
	} else {
		args = append(args, models.StateDeleted)
		conditions = append(conditions, fmt.Sprintf("status_state <> $%d", len(args)))
	}

	if filter.ClubID != "" {
		args = append(args, filter.ClubID)
		owner := fmt.Sprintf("club_id = $%d", len(args))
		args = append(args, filter.ClubID)
		collab := fmt.Sprintf("$%d = ANY(collab_club_ids)", len(args))
		conditions = append(conditions, fmt.Sprintf("(%s OR %s)", owner, collab))
	}

	if filter.ExcludeInternal {
		args = append(args, models.AudienceInternal)
		conditions = append(conditions, fmt.Sprintf("NOT ($%d = ANY(audience))", len(args)))
	}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if filter.WindowStart != nil {
		args = append(args, *filter.WindowStart)
		conditions = append(conditions, fmt.Sprintf("start_at >= $%d", len(args)))
	}
	if filter.WindowEnd != nil {
		args = append(args, *filter.WindowEnd)
		conditions = append(conditions, fmt.Sprintf("start_at <= $%d", len(args)))
	}

	if filter.RequireBudget {
		conditions = append(conditions, "budget <> '[]'::jsonb")
	}
	if filter.EndedBefore != nil {
		args = append(args, *filter.EndedBefore)
		conditions = append(conditions, fmt.Sprintf("end_at < $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

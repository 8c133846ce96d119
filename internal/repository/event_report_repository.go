package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Clubs-Council-IIITH/events/internal/models"
)

const eventReportColumns = `id, event_id, summary, attendance, photos_link, feedback,
       submitted_by, submitted_at`

// EventReportRepository persists post-event reports, one per event.
type EventReportRepository struct {
	db *sqlx.DB
}

// NewEventReportRepository constructs the repository.
func NewEventReportRepository(db *sqlx.DB) *EventReportRepository {
	return &EventReportRepository{db: db}
}

// Create inserts a report row. The event_id column carries a unique
// constraint, so a duplicate insert fails at the database too.
func (r *EventReportRepository) Create(ctx context.Context, report *models.EventReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	const query = `INSERT INTO event_reports
	(id, event_id, summary, attendance, photos_link, feedback, submitted_by, submitted_at)
	VALUES (:id, :event_id, :summary, :attendance, :photos_link, :feedback, :submitted_by, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create event report: %w", err)
	}
	return nil
}

// GetByEvent fetches the report filed for an event. A missing report is the
// raw sql.ErrNoRows; callers decide what that means.
func (r *EventReportRepository) GetByEvent(ctx context.Context, eventID string) (*models.EventReport, error) {
	query := fmt.Sprintf("SELECT %s FROM event_reports WHERE event_id = $1", eventReportColumns)
	var report models.EventReport
	if err := r.db.GetContext(ctx, &report, query, eventID); err != nil {
		return nil, err
	}
	return &report, nil
}

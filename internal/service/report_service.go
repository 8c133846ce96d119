package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/export"
)

// Report field names accepted by the export request.
var reportFields = map[string]func(models.Event) string{
	"code":        func(e models.Event) string { return e.Code },
	"name":        func(e models.Event) string { return e.Name },
	"club":        func(e models.Event) string { return e.ClubID },
	"description": func(e models.Event) string { return e.Description },
	"start":       func(e models.Event) string { return e.StartAt.Format(time.RFC3339) },
	"end":         func(e models.Event) string { return e.EndAt.Format(time.RFC3339) },
	"status":      func(e models.Event) string { return e.State.Label() },
	"mode":        func(e models.Event) string { return string(e.Mode) },
	"audience":    func(e models.Event) string { return strings.Join(e.Audience, ", ") },
	"population":  func(e models.Event) string { return strconv.Itoa(e.Population) },
	"budget":      func(e models.Event) string { return fmt.Sprintf("%.2f", e.Budget.Total()) },
	"poc":         func(e models.Event) string { return e.POC },
	"locations": func(e models.Event) string {
		labels := make([]string, 0, len(e.Locations))
		for _, room := range e.Locations {
			labels = append(labels, room.Label())
		}
		return strings.Join(labels, ", ")
	},
	"bills_status": func(e models.Event) string { return e.BillsState.Label() },
}

// ReportFile is a rendered export ready to stream to the caller.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders filtered event data as CSV or PDF downloads.
type ReportService struct {
	repo    listingStore
	enabled bool
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs the service.
func NewReportService(repo listingStore, enabled bool, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:    repo,
		enabled: enabled,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Build renders the requested report. Council, finance and room office may
// include pending events; everyone else exports approved events only.
func (s *ReportService) Build(ctx context.Context, actor models.Actor, req dto.ReportRequest) (*ReportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report exports are disabled")
	}

	headers := make([]string, 0, len(req.Fields))
	for _, field := range req.Fields {
		name := strings.ToLower(strings.TrimSpace(field))
		if _, ok := reportFields[name]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report field: "+field)
		}
		headers = append(headers, name)
	}

	states, err := reportStates(actor, req.Status)
	if err != nil {
		return nil, err
	}

	filter := models.EventFilter{
		ClubID:      req.ClubID,
		States:      states,
		WindowStart: req.StartDate,
		WindowEnd:   req.EndDate,
	}
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	dataset := export.Dataset{Headers: headers}
	for _, event := range events {
		row := make(map[string]string, len(headers))
		for _, header := range headers {
			row[header] = reportFields[header](event)
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	renderer, err := export.ForFormat(req.Format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	data, err := renderer.Render(dataset, "Events Report")
	if err != nil {
		return nil, appErrors.Wrap(appErrors.ErrInternal, err)
	}

	contentType := "text/csv"
	if req.Format == export.FormatPDF {
		contentType = "application/pdf"
	}
	s.logger.Info("events report rendered",
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(dataset.Rows)),
		zap.String("actor", actor.ID),
	)
	return &ReportFile{
		Filename:    fmt.Sprintf("events_%s.%s", s.now().Format("20060102_150405"), req.Format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func reportStates(actor models.Actor, status string) ([]models.EventState, error) {
	privileged := actor.Role == models.RoleCouncil || actor.Role == models.RoleFinance || actor.Role == models.RoleRoomOffice
	switch status {
	case "approved":
		return []models.EventState{models.StateApproved}, nil
	case "pending":
		if !privileged {
			return nil, appErrors.ErrForbidden
		}
		return []models.EventState{models.StatePendingCouncil, models.StatePendingBudget, models.StatePendingRoom}, nil
	case "all":
		if !privileged {
			return []models.EventState{models.StateApproved}, nil
		}
		return []models.EventState{
			models.StatePendingCouncil, models.StatePendingBudget,
			models.StatePendingRoom, models.StateApproved,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved, or all")
	}
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Clubs-Council-IIITH/events/internal/dto"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/service"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/response"
)

type reportService interface {
	Build(ctx context.Context, actor models.Actor, req dto.ReportRequest) (*service.ReportFile, error)
}

// ReportHandler streams events data exports.
type ReportHandler struct {
	reports  reportService
	validate *validator.Validate
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports, validate: validator.New()}
}

// Download godoc
// @Summary Download filtered event data as CSV or PDF
// @Tags Reports
// @Accept json
// @Produce octet-stream
// @Param payload body dto.ReportRequest true "Report parameters"
// @Success 200 {file} binary
// @Router /events/report [post]
func (h *ReportHandler) Download(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid report payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	file, err := h.reports.Build(c.Request.Context(), *actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(200, file.ContentType, file.Data)
}

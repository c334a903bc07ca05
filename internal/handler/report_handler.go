package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// ReportHandler handles the misclaim correction workflow.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// File godoc
// POST /api/v1/reports
// A student files a misclaim correction.
func (h *ReportHandler) File(c *gin.Context) {
	var req model.FileReportRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report, err := h.reports.File(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, report)
}

// List godoc
// GET /api/v1/teacher/reports?status=pending
func (h *ReportHandler) List(c *gin.Context) {
	var (
		reports []model.Report
		err     error
	)
	if c.Query("status") == "pending" {
		reports, err = h.reports.Pending(c.Request.Context())
	} else {
		reports, err = h.reports.All(c.Request.Context())
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"reports": reports})
}

// Approve godoc
// POST /api/v1/teacher/reports/approve
func (h *ReportHandler) Approve(c *gin.Context) {
	var req model.ProcessReportRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report, err := h.reports.Approve(c.Request.Context(), req.ReportID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, report)
}

// Reject godoc
// POST /api/v1/teacher/reports/reject
func (h *ReportHandler) Reject(c *gin.Context) {
	var req model.ProcessReportRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report, err := h.reports.Reject(c.Request.Context(), req.ReportID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, report)
}

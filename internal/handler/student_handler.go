package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// StudentHandler handles the student-facing identity claim endpoints.
type StudentHandler struct {
	claims  *service.ClaimService
	results *service.ResultService
}

func NewStudentHandler(claims *service.ClaimService, results *service.ResultService) *StudentHandler {
	return &StudentHandler{claims: claims, results: results}
}

// List godoc
// GET /api/v1/students
// The active roster with live claim status, for the name-picker screen.
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.claims.StudentsWithStatus()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// Claim godoc
// POST /api/v1/students/claim
func (h *StudentHandler) Claim(c *gin.Context) {
	var req model.ClaimRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.claims.Claim(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"stt": req.STT, "canRetry": state.CanRetry})
}

// Release godoc
// POST /api/v1/students/release
func (h *StudentHandler) Release(c *gin.Context) {
	var req model.ClaimRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.claims.Release(c.Request.Context(), req); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"released": true})
}

// CheckSubmitted godoc
// GET /api/v1/students/:stt/submitted
// Lets a reconnecting client find out whether its identity already has a
// ledger entry and whether the teacher granted a retry.
func (h *StudentHandler) CheckSubmitted(c *gin.Context) {
	status, err := h.results.Status(c.Param("stt"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := gin.H{
		"submitted": status.Submitted,
		"canRetry":  status.CanRetry,
		"examId":    status.ExamID,
	}
	if status.SubmittedAt != nil {
		out["submittedAt"] = status.SubmittedAt
	}
	response.OK(c, out)
}

// AllowRetry godoc
// POST /api/v1/teacher/students/allow-retry
func (h *StudentHandler) AllowRetry(c *gin.Context) {
	var req model.AllowRetryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.claims.AllowRetry(c.Request.Context(), req.STT); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"stt": req.STT, "canRetry": true})
}

// ResetAll godoc
// POST /api/v1/teacher/students/reset
func (h *StudentHandler) ResetAll(c *gin.Context) {
	if err := h.claims.ResetAll(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"reset": true})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// ResultHandler handles submission and the teacher's result views.
type ResultHandler struct {
	results *service.ResultService
}

func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Submit godoc
// POST /api/v1/submit
// Grades an answer sheet. The response hides the score when the teacher
// disabled score display.
func (h *ResultHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.results.Submit(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	body := gin.H{
		"submitted": true,
		"isRetry":   out.IsRetry,
		"showScore": out.ShowScore,
	}
	if out.ShowScore {
		body["score"] = out.Record.Score
		body["correctCount"] = out.Record.CorrectCount
		body["totalQuestions"] = out.Record.TotalQuestions
	}
	response.OK(c, body)
}

// List godoc
// GET /api/v1/teacher/results
func (h *ResultHandler) List(c *gin.Context) {
	ledger, err := h.results.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"results": ledger})
}

// Clear godoc
// DELETE /api/v1/teacher/results
func (h *ResultHandler) Clear(c *gin.Context) {
	if err := h.results.ClearAll(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"cleared": true})
}

// Export godoc
// GET /api/v1/teacher/results/export
// Roster-joined summary rows for the teacher's spreadsheet.
func (h *ResultHandler) Export(c *gin.Context) {
	rows, err := h.results.ExportSummary()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"rows": rows})
}

// Summary godoc
// GET /api/v1/teacher/results/summary
// Aggregates every stored session ledger, active or not.
func (h *ResultHandler) Summary(c *gin.Context) {
	summaries, err := h.results.SummaryAcrossSessions(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"sessions": summaries})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// ExamHandler serves the student paper endpoints and the teacher's exam
// catalog and question editor.
type ExamHandler struct {
	sessions *service.SessionService
	exams    *service.ExamService
}

func NewExamHandler(sessions *service.SessionService, exams *service.ExamService) *ExamHandler {
	return &ExamHandler{sessions: sessions, exams: exams}
}

// ─── Student-facing ─────────────────────────────────────────────────

// Paper godoc
// GET /api/v1/exam
// The gate-checked exam paper, correct answers stripped.
func (h *ExamHandler) Paper(c *gin.Context) {
	paper, settings, err := h.sessions.Paper()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{
		"questions": paper,
		"settings":  publicSettings(settings),
	})
}

// CheckAnswer godoc
// POST /api/v1/exam/check-answer
// Practice-mode single-answer probe.
func (h *ExamHandler) CheckAnswer(c *gin.Context) {
	var req model.CheckAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.sessions.CheckAnswer(req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, out)
}

// PasswordRequired godoc
// GET /api/v1/exam/password-required
func (h *ExamHandler) PasswordRequired(c *gin.Context) {
	response.OK(c, gin.H{"required": h.sessions.PasswordRequired()})
}

// VerifyPassword godoc
// POST /api/v1/exam/verify-password
func (h *ExamHandler) VerifyPassword(c *gin.Context) {
	var req model.VerifyPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sessions.VerifyPassword(req.Password); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"valid": true})
}

// ─── Teacher catalog ────────────────────────────────────────────────

// List godoc
// GET /api/v1/teacher/exams
func (h *ExamHandler) List(c *gin.Context) {
	infos, err := h.exams.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"exams": infos})
}

// Create godoc
// POST /api/v1/teacher/exams
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.exams.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, exam)
}

// Get godoc
// GET /api/v1/teacher/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	exam, err := h.exams.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, exam)
}

// Delete godoc
// DELETE /api/v1/teacher/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	if err := h.exams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

type saveAsRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// SaveCurrentAs godoc
// POST /api/v1/teacher/exams/save-as
// Snapshots the active exam into a new catalog entry.
func (h *ExamHandler) SaveCurrentAs(c *gin.Context) {
	var req saveAsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.exams.SaveCurrentAs(c.Request.Context(), req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, exam)
}

// ─── Teacher question editor (active exam) ──────────────────────────

// Questions godoc
// GET /api/v1/teacher/questions
func (h *ExamHandler) Questions(c *gin.Context) {
	questions, err := h.exams.Questions()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"questions": questions})
}

// ReplaceQuestions godoc
// PUT /api/v1/teacher/questions
func (h *ExamHandler) ReplaceQuestions(c *gin.Context) {
	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	count, err := h.exams.ReplaceQuestions(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// AddQuestion godoc
// POST /api/v1/teacher/questions
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.exams.AddQuestion(c.Request.Context(), req); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, gin.H{"added": true})
}

// UpdateQuestion godoc
// PUT /api/v1/teacher/questions/:index
func (h *ExamHandler) UpdateQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.exams.UpdateQuestion(c.Request.Context(), index, req); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// DeleteQuestion godoc
// DELETE /api/v1/teacher/questions/:index
func (h *ExamHandler) DeleteQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err := h.exams.DeleteQuestion(c.Request.Context(), index); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

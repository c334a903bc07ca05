package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// SessionHandler exposes the active session pointer and its settings.
type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get godoc
// GET /api/v1/session
// Returns the active session pointer plus the public settings subset.
func (h *SessionHandler) Get(c *gin.Context) {
	doc := h.sessions.Current()
	response.OK(c, gin.H{
		"currentSession": doc.CurrentSession,
		"settings":       publicSettings(doc.ExamSettings),
	})
}

// PublicSettings godoc
// GET /api/v1/settings
// Settings visible to students: no password, no answer-affecting fields.
func (h *SessionHandler) PublicSettings(c *gin.Context) {
	doc := h.sessions.Current()
	response.OK(c, publicSettings(doc.ExamSettings))
}

func publicSettings(s model.ExamSettings) gin.H {
	return gin.H{
		"title":           s.Title,
		"timeLimit":       s.TimeLimit,
		"isOpen":          s.IsOpen,
		"showScore":       s.ShowScore,
		"practiceMode":    s.PracticeMode,
		"requirePassword": s.RequirePassword && s.ExamPassword != "",
	}
}

// Switch godoc
// POST /api/v1/teacher/session
// Switches the active class/exam pair.
func (h *SessionHandler) Switch(c *gin.Context) {
	var req model.SwitchSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	doc, err := h.sessions.SetActive(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, doc)
}

// UpdateSettings godoc
// PUT /api/v1/teacher/settings
func (h *SessionHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	settings, err := h.sessions.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, settings)
}

// Open godoc
// POST /api/v1/teacher/exam/open
func (h *SessionHandler) Open(c *gin.Context) {
	settings, err := h.sessions.OpenExam(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, settings)
}

// Close godoc
// POST /api/v1/teacher/exam/close
func (h *SessionHandler) Close(c *gin.Context) {
	settings, err := h.sessions.CloseExam(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, settings)
}

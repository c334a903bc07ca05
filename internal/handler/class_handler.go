package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// ClassHandler handles the teacher's class catalog and roster imports.
type ClassHandler struct {
	classes *service.ClassService
}

func NewClassHandler(classes *service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// GET /api/v1/teacher/classes
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"classes": classes})
}

// Create godoc
// POST /api/v1/teacher/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, class)
}

// Delete godoc
// DELETE /api/v1/teacher/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.classes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// Roster godoc
// GET /api/v1/teacher/classes/:id/students
func (h *ClassHandler) Roster(c *gin.Context) {
	roster, err := h.classes.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"students": roster})
}

// ImportRoster godoc
// POST /api/v1/teacher/classes/:id/students
// Replaces the class roster with parsed spreadsheet rows.
func (h *ClassHandler) ImportRoster(c *gin.Context) {
	var req model.ImportRosterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	count, err := h.classes.ImportRoster(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"imported": count})
}

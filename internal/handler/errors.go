package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
)

// writeServiceError maps service sentinels onto HTTP statuses and response
// codes. Unknown errors become a logged 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrStudentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrStudentNotFound)
	case errors.Is(err, service.ErrClassNotFound):
		response.Error(c, http.StatusNotFound, response.ErrClassNotFound)
	case errors.Is(err, service.ErrExamNotFound):
		response.Error(c, http.StatusNotFound, response.ErrExamNotFound)
	case errors.Is(err, service.ErrReportNotFound):
		response.Error(c, http.StatusNotFound, response.ErrReportNotFound)
	case errors.Is(err, service.ErrDuplicateClass):
		response.Error(c, http.StatusConflict, response.ErrDuplicateClass)
	case errors.Is(err, service.ErrClassInUse):
		response.Error(c, http.StatusConflict, response.ErrClassInUse)
	case errors.Is(err, service.ErrExamInUse):
		response.Error(c, http.StatusConflict, response.ErrExamInUse)
	case errors.Is(err, service.ErrStudentTaken):
		response.Error(c, http.StatusConflict, response.ErrStudentTaken)
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Error(c, http.StatusConflict, response.ErrAlreadyCompleted)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Error(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrExamClosed):
		response.Error(c, http.StatusForbidden, response.ErrExamClosed)
	case errors.Is(err, service.ErrNoQuestions):
		response.Error(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrInvalidQuestion):
		response.Error(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrWrongPassword):
		response.Error(c, http.StatusForbidden, response.ErrWrongPassword)
	case errors.Is(err, service.ErrNotPracticeMode):
		response.Error(c, http.StatusForbidden, response.ErrNotPracticeMode)
	case errors.Is(err, service.ErrNoActiveSession):
		response.Error(c, http.StatusConflict, response.ErrNoActiveSession)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		response.Error(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

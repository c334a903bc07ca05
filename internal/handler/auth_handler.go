package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/middleware"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
)

// AuthHandler handles teacher authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login godoc
// POST /api/v1/auth/login
// Exchanges the teacher password for a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"token": token})
}

// Me godoc
// GET /api/v1/auth/me
// Confirms the presented token is still valid.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.OK(c, gin.H{
		"role":      string(claims.TokenType),
		"expiresAt": claims.ExpiresAt,
	})
}

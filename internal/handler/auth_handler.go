package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nr6/internal/middleware"
	"nr6/internal/service"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/v1/auth/login. Unknown emails, inactive accounts
// and wrong passwords all produce the same INVALID_CREDENTIALS response.
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Admin credentials"
// @Success 200 {object} APIResponse{data=service.TokenPair}
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Failure 429 {object} APIResponse "Rate limited"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	RespondOK(c, pair)
}

// Me handles GET /api/v1/admin/me
// @Summary Current admin
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse{data=map[string]string}
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": userID, "email": middleware.GetEmail(c)})
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RefreshInput true "Refresh token"
// @Success 200 {object} APIResponse{data=service.TokenPair}
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Invalid or expired token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	RespondOK(c, pair)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/middleware"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResult, error)
	Logout(ctx context.Context, claims *models.SessionClaims) error
	CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  middleware.CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// Register godoc
// @Summary Register user
// @Description Create an account and start a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request body"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, res.SessionToken)
	response.Created(c, dto.UserResponse{User: res.User.Summary(), Message: "User registered successfully"})
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request body"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, res.SessionToken)
	response.JSON(c, http.StatusOK, dto.UserResponse{User: res.User.Public()})
}

// Logout godoc
// @Summary Logout current session
// @Description Clear the session cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} response.ErrorBody
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.Claims(c)); err != nil {
		response.Error(c, err)
		return
	}

	middleware.ClearSessionCookie(c, h.cookie)
	c.Header("Cache-Control", "no-store, must-revalidate")
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary Current user
// @Description Profile of the session owner
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Private(c, http.StatusOK, dto.UserResponse{User: *user})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/services"
)

type AuthHandler struct {
	log     *logger.Logger
	authSvc services.AuthService
}

func NewAuthHandler(log *logger.Logger, authSvc services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:     log.With("handler", "AuthHandler"),
		authSvc: authSvc,
	}
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), body.Email, body.Password, body.DisplayName)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "registration_failed", err)
		return
	}
	RespondCreated(c, user)
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	pair, err := h.authSvc.Login(c.Request.Context(), body.Email, body.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "login_failed", err)
		return
	}
	RespondOK(c, pair)
}

// POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	pair, err := h.authSvc.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid_token", err)
		return
	}
	RespondOK(c, pair)
}

// GET /api/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authSvc.GetUser(c.Request.Context(), userID(c))
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, user)
}

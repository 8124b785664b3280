package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/service/auth"
)

// AuthHandler serves login and profile updates.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the auth HTTP handler.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Code string `json:"code" binding:"required"`
}

// Login exchanges a WeChat mini-program code for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, 400001, "invalid request body")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, auth.ErrLoginFailed) {
			respondError(c, http.StatusUnauthorized, 401001, "wechat login failed")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500001, "login failed")
		return
	}

	respondOK(c, "ok", gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

type updateUserRequest struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// UpdateUser sets the caller's nickname and avatar.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, 400001, "invalid request body")
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, req.Nickname, req.AvatarURL)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			respondError(c, http.StatusUnauthorized, 401002, "user not found or disabled")
			return
		}
		h.logger.Error("failed updating user profile", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500002, "failed to update user profile")
		return
	}

	respondOK(c, "updated", gin.H{"user": profile})
}

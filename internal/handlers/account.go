package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/middleware"
	"pitchside/api/internal/repository"
	"pitchside/api/internal/service"
	"pitchside/api/internal/verification"
)

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		fail(c, http.StatusBadRequest, "Missing token")
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenExpired):
			fail(c, http.StatusGone, "Verification link has expired")
		case errors.Is(err, repository.ErrTokenNotFound):
			fail(c, http.StatusBadRequest, "Invalid or already used token")
		default:
			h.log.Error().Err(err).Msg("verify email failed")
			fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Email verified"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.log.Error().Err(err).Msg("forgot password failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// The response never reveals whether the address is registered.
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "If an account exists, a password reset email has been sent."})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Token and password are required")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) || errors.Is(err, repository.ErrTokenExpired) {
			fail(c, http.StatusBadRequest, "Reset link is invalid or has expired")
			return
		}
		h.log.Error().Err(err).Msg("reset password failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	payload, ok := middleware.CurrentSession(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Current and new password are required")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), payload.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		h.log.Error().Err(err).Msg("change password failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type sendPhoneCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h HandlerSet) SendPhoneCode(c *gin.Context) {
	payload, ok := middleware.CurrentSession(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendPhoneCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Phone number is required")
		return
	}

	code, err := h.authService.SendPhoneCode(c.Request.Context(), payload.UserID, req.Phone)
	if err != nil {
		h.log.Error().Err(err).Msg("send phone code failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// TODO: deliver via an SMS provider; until then the code is echoed so
	// the flow is usable in development.
	c.JSON(http.StatusOK, gin.H{"ok": true, "code": code})
}

type verifyPhoneCodeRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

func (h HandlerSet) VerifyPhoneCode(c *gin.Context) {
	payload, ok := middleware.CurrentSession(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req verifyPhoneCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Code is required")
		return
	}

	if err := h.authService.VerifyPhoneCode(c.Request.Context(), payload.UserID, req.Code); err != nil {
		if errors.Is(err, verification.ErrCodeInvalid) {
			fail(c, http.StatusBadRequest, "Code is invalid or has expired")
			return
		}
		h.log.Error().Err(err).Msg("verify phone code failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

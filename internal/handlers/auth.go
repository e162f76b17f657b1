package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/middleware"
	"pitchside/api/internal/security"
	"pitchside/api/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Club     string `json:"club"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserResponse(p security.SessionPayload) userResponse {
	return userResponse{ID: p.UserID, Email: p.Email, Name: p.Name, Role: p.Role}
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Club:     req.Club,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			fail(c, http.StatusConflict, "A user with this email already exists")
			return
		}
		h.log.Error().Err(err).Msg("register failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	security.SetSessionCookie(c, result.SessionToken, result.TTLDays, h.cfg.Environment)

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": userResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  result.User.Role,
		},
		"message": "Account created successfully. Please verify your email.",
	})
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Missing credentials")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	security.SetSessionCookie(c, result.SessionToken, result.TTLDays, h.cfg.Environment)

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": userResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  result.User.Role,
		},
		"message": "Login successful",
	})
}

// Logout deletes the cookie. The token stays valid until expiry; there is
// no revocation list.
func (h HandlerSet) Logout(c *gin.Context) {
	security.DeleteSessionCookie(c, h.cfg.Environment)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Logged out"})
}

func (h HandlerSet) Me(c *gin.Context) {
	payload, ok := middleware.CurrentSession(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": toUserResponse(payload)})
}

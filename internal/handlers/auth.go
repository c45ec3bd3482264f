package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/middleware"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/services"
)

type AuthHandler struct {
	responder
	users        *services.UserService
	tokens       *auth.TokenManager
	cookieSecure bool
}

// Signup handles user registration
func (h *AuthHandler) Signup(c *gin.Context) {
	var input models.SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	user, err := h.users.Signup(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	if !h.issueCookie(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "signup complete",
		"user":    user,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	user, err := h.users.Login(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	if !h.issueCookie(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logout complete"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) issueCookie(c *gin.Context, userID int) bool {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		h.fail(c, apperror.NewInternal("Failed to generate token", err))
		return false
	}
	h.setCookie(c, token, int(h.tokens.TTL().Seconds()))
	return true
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", h.cookieSecure, true)
}

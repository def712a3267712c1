package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"devshare/internal/auth"
	"devshare/internal/observability"
	"devshare/internal/repositories"
	"devshare/internal/telemetry"
)

// AuthHandler manages registration, login and session endpoints.
type AuthHandler struct {
	sessions *auth.SessionManager
	audit    *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(sessions *auth.SessionManager, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{sessions: sessions, audit: audit}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.sessions.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user with this email already exists"})
			return
		}
		log.Printf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	h.emitAudit(c, "INFO", "user registered")
	c.JSON(http.StatusCreated, gin.H{"user_id": user.ID})
}

// Login handles POST /auth/login. Unknown email and wrong password
// produce the identical response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, token, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			observability.IncLogin("failure")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	h.sessions.WriteSessionCookie(c.Writer, token)
	observability.IncLogin("success")
	h.emitAudit(c, "INFO", "user logged in")
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Logout handles POST /auth/logout. Always succeeds, with or without an
// active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session handles GET /auth/session, returning the current claims or
// null without distinguishing why no session is present.
func (h *AuthHandler) Session(c *gin.Context) {
	session, ok := h.sessions.CurrentSession(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"session": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

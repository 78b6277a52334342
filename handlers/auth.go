package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/accounts"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/config"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/sessions"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/logger"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/middleware"
)

// CreateAccountRequest is the body for account creation/registration
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body for session creation
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	accountsSvc *accounts.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, a *accounts.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, accountsSvc: a, sessionsSvc: s}
}

// Register routes for accounts and sessions
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/accounts", h.CreateAccount)
	rg.POST("/session", h.Login)
	rg.GET("/session", h.CurrentIdentity)
	rg.DELETE("/session", h.Logout)
}

func accountJSON(a *accounts.Account) gin.H {
	return gin.H{"id": a.ID, "username": a.Username, "admin": a.Admin}
}

// CreateAccount creates a login principal. Admin-gated unless open
// registration is configured.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	if !h.cfg.Auth.OpenRegistration {
		token := middleware.BearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		sess, err := h.sessionsSvc.Validate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		if !sess.Admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.accountsSvc.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		logger.Errorf("account create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account creation failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": accountJSON(a)})
}

// Login authenticates a username/password pair and issues an opaque session
// token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.accountsSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	token, err := h.sessionsSvc.Create(c.Request.Context(), a, h.cfg.Auth.SessionTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "account": accountJSON(a)})
}

// CurrentIdentity reports the caller's authentication state. Never errors:
// a missing or stale token is simply "unauthenticated".
func (h *AuthHandler) CurrentIdentity(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	sess, err := h.sessionsSvc.Validate(c.Request.Context(), token)
	if err != nil || sess == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"account":       gin.H{"id": sess.AccountID, "username": sess.Username, "admin": sess.Admin},
	})
}

// Logout terminates the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
		return
	}
	if err := h.sessionsSvc.Delete(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

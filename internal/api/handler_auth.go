package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/auth"
	"lodge-dining-backend/internal/model"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a member account. Staff and admin accounts are provisioned
// out of band, never through this endpoint.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Email, hash, model.RoleMember)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Identical response for unknown email and bad password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, claims, err := auth.NewAccessToken(h.jwtSecret, user.ID, user.Role, h.accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   claims.ExpiresAt,
		"role":         user.Role,
	})
}

// Logout revokes the presented token until its natural expiry.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString("jti")
	expiresAt, _ := c.Get("token_expires_at")
	exp, _ := expiresAt.(time.Time)
	if exp.IsZero() {
		exp = time.Now().UTC().Add(h.accessTTL)
	}

	if err := h.store.RevokeToken(c.Request.Context(), jti, exp); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

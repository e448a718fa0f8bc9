package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/auth"
	"lodge-dining-backend/internal/store"
)

const actorKey = "actor"

// Auth validates the Bearer token, rejects revoked tokens, and stores the
// resulting store.Actor in the gin context for handlers to pick up.
func Auth(secret string, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseAccessToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		revoked, err := s.IsTokenRevoked(c.Request.Context(), claims.JTI)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token check failed"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		c.Set(actorKey, store.Actor{UserID: claims.UserID, Role: claims.Role})
		c.Set("jti", claims.JTI)
		c.Set("token_expires_at", claims.ExpiresAt)
		c.Next()
	}
}

// ActorFrom retrieves the authenticated actor placed by Auth.
func ActorFrom(c *gin.Context) store.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(store.Actor)
	return actor
}

// RequireStaff aborts with 403 unless the actor holds the staff or admin role.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Role.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff only"})
			return
		}
		c.Next()
	}
}

package mw

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lodge-dining-backend/internal/auth"
	"lodge-dining-backend/internal/model"
	"lodge-dining-backend/internal/store"
)

const testSecret = "test-secret"

func newAuthedRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:mw_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.RevokedToken{}))
	s := store.NewGormStore(db)

	r := gin.New()
	r.GET("/me", Auth(testSecret, s), func(c *gin.Context) {
		actor := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	r.GET("/staff", Auth(testSecret, s), RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, s
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, s := newAuthedRouter(t)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	})

	t.Run("bad token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)
	})

	t.Run("valid token resolves the actor", func(t *testing.T) {
		token, _, err := auth.NewAccessToken(testSecret, 7, model.RoleMember, time.Hour)
		require.NoError(t, err)

		w := get(r, "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		token, claims, err := auth.NewAccessToken(testSecret, 7, model.RoleMember, time.Hour)
		require.NoError(t, err)
		require.NoError(t, s.RevokeToken(context.Background(), claims.JTI, claims.ExpiresAt))

		assert.Equal(t, http.StatusUnauthorized, get(r, "/me", token).Code)
	})
}

func TestRequireStaff(t *testing.T) {
	r, _ := newAuthedRouter(t)

	memberToken, _, err := auth.NewAccessToken(testSecret, 1, model.RoleMember, time.Hour)
	require.NoError(t, err)
	staffToken, _, err := auth.NewAccessToken(testSecret, 2, model.RoleStaff, time.Hour)
	require.NoError(t, err)
	adminToken, _, err := auth.NewAccessToken(testSecret, 3, model.RoleAdmin, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/staff", memberToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/staff", staffToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/staff", adminToken).Code)
}

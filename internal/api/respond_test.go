package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lodge-dining-backend/internal/store"
)

func TestStatusForKind(t *testing.T) {
	testCases := []struct {
		kind store.Kind
		want int
	}{
		{store.KindNotFound, http.StatusNotFound},
		{store.KindForbidden, http.StatusForbidden},
		{store.KindConflict, http.StatusConflict},
		{store.KindLocked, http.StatusConflict},
		{store.KindOverlapConflict, http.StatusConflict},
		{store.KindInvalidTransition, http.StatusUnprocessableEntity},
		{store.KindStructuralViolation, http.StatusUnprocessableEntity},
		{store.KindInvalidWindow, http.StatusBadRequest},
		{store.KindEmptyOrder, http.StatusBadRequest},
		{store.KindInvalidArgument, http.StatusBadRequest},
		{store.Kind("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, statusForKind(tc.kind), string(tc.kind))
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("classified error carries its kind", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, &store.Error{Kind: store.KindOverlapConflict, Message: "table taken"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"table taken","kind":"overlap_conflict"}`, w.Body.String())
	})

	t.Run("unclassified error hides internals", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	})
}

func setupSubscriptionRouter() *gin.Engine {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil, "secret", 0)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	return r
}

func TestPutSubscriptionRequiresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

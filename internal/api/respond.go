package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/store"
)

// respondError translates a classified store error into an HTTP response.
// Unclassified errors become a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var se *store.Error
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(statusForKind(se.Kind), gin.H{"error": se.Message, "kind": string(se.Kind)})
}

func statusForKind(kind store.Kind) int {
	switch kind {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindForbidden:
		return http.StatusForbidden
	case store.KindConflict, store.KindLocked, store.KindOverlapConflict:
		return http.StatusConflict
	case store.KindInvalidTransition, store.KindStructuralViolation:
		return http.StatusUnprocessableEntity
	case store.KindInvalidWindow, store.KindEmptyOrder, store.KindInvalidArgument:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

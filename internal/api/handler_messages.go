package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/notification"
)

func (h *Handler) ListMessages(c *gin.Context) {
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	messages, err := h.store.ListMessages(c.Request.Context(), mw.ActorFrom(c), reservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type messageRequest struct {
	Body string `json:"body" binding:"required"`
}

// CreateMessage appends a note to the reservation thread and pings staff.
func (h *Handler) CreateMessage(c *gin.Context) {
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.store.CreateMessage(c.Request.Context(), mw.ActorFrom(c), reservationID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatch(notification.Event{
		Kind:          notification.EventMessagePosted,
		ReservationID: reservationID,
	})
	c.JSON(http.StatusCreated, message)
}

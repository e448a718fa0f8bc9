package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/model"
	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/notification"
	"lodge-dining-backend/internal/store"
)

// EnsureOrder returns the attendee's order, creating an open one when the
// attendee has none yet.
func (h *Handler) EnsureOrder(c *gin.Context) {
	attendeeID, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.store.EnsureOrder(c.Request.Context(), mw.ActorFrom(c), attendeeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type orderPatchRequest struct {
	Notes  *string `json:"notes"`
	Status *string `json:"status"`
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req orderPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.store.UpdateOrder(c.Request.Context(), mw.ActorFrom(c), id, store.OrderPatch{
		Notes:  req.Notes,
		Status: req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// FireOrder commits an order to the kitchen and notifies staff devices.
func (h *Handler) FireOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.store.FireOrder(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatch(notification.Event{
		Kind:          notification.EventOrderFired,
		ReservationID: reservationIDForOrder(c, h.store, order),
		OrderID:       order.ID,
	})
	c.JSON(http.StatusOK, order)
}

// reservationIDForOrder resolves the reservation an order hangs off. Push is
// best-effort; a lookup failure just produces an event without a reservation.
func reservationIDForOrder(c *gin.Context, s store.Store, order *model.Order) int64 {
	var reservationID int64
	s.DB().WithContext(c.Request.Context()).
		Model(&model.Attendee{}).
		Select("reservation_id").
		Where("id = ?", order.AttendeeID).
		Scan(&reservationID)
	return reservationID
}

func (h *Handler) FulfillOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.store.FulfillOrder(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// OrderChit renders the kitchen chit for an order.
func (h *Handler) OrderChit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	chit, err := h.store.OrderChit(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chit)
}

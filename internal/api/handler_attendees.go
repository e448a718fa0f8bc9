package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/store"
)

type attendeeRequest struct {
	MemberID            *int64         `json:"member_id"`
	GuestName           *string        `json:"guest_name"`
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions"`
	Meta                datatypes.JSON `json:"meta"`
	SelectionConfirmed  bool           `json:"selection_confirmed"`
}

func (h *Handler) CreateAttendee(c *gin.Context) {
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req attendeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attendee, err := h.store.CreateAttendee(c.Request.Context(), mw.ActorFrom(c), store.AttendeeInput{
		ReservationID:       reservationID,
		MemberID:            req.MemberID,
		GuestName:           req.GuestName,
		DietaryRestrictions: req.DietaryRestrictions,
		Meta:                req.Meta,
		SelectionConfirmed:  req.SelectionConfirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attendee)
}

func (h *Handler) ListAttendees(c *gin.Context) {
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	attendees, err := h.store.ListAttendees(c.Request.Context(), mw.ActorFrom(c), reservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}

type attendeePatchRequest struct {
	MemberID            *int64         `json:"member_id"`
	GuestName           *string        `json:"guest_name"`
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions"`
	Meta                datatypes.JSON `json:"meta"`
	SelectionConfirmed  *bool          `json:"selection_confirmed"`
}

func (h *Handler) UpdateAttendee(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req attendeePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attendee, err := h.store.UpdateAttendee(c.Request.Context(), mw.ActorFrom(c), id, store.AttendeePatch{
		MemberID:            req.MemberID,
		GuestName:           req.GuestName,
		DietaryRestrictions: req.DietaryRestrictions,
		Meta:                req.Meta,
		SelectionConfirmed:  req.SelectionConfirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}

func (h *Handler) DeleteAttendee(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteAttendee(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

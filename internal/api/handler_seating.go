package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/store"
)

type seatAssignmentRequest struct {
	ReservationID int64  `json:"reservation_id" binding:"required"`
	TableID       int64  `json:"table_id" binding:"required"`
	Notes         string `json:"notes"`
}

func (h *Handler) CreateSeatAssignment(c *gin.Context) {
	var req seatAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.store.CreateSeatAssignment(c.Request.Context(), mw.ActorFrom(c), store.SeatAssignmentInput{
		ReservationID: req.ReservationID,
		TableID:       req.TableID,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

type seatAssignmentPatchRequest struct {
	TableID *int64  `json:"table_id"`
	Notes   *string `json:"notes"`
}

func (h *Handler) UpdateSeatAssignment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req seatAssignmentPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.store.UpdateSeatAssignment(c.Request.Context(), mw.ActorFrom(c), id, store.SeatAssignmentPatch{
		TableID: req.TableID,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *Handler) DeleteSeatAssignment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteSeatAssignment(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSeatAssignment returns the table assigned to a reservation, if any.
func (h *Handler) GetSeatAssignment(c *gin.Context) {
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	assignment, err := h.store.GetSeatAssignment(c.Request.Context(), mw.ActorFrom(c), reservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

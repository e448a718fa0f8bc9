package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lodge-dining-backend/internal/model"
	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/store"
)

type reservationRequest struct {
	Date         string  `json:"date" binding:"required"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      *string `json:"end_time"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	DiningRoomID *int64  `json:"dining_room_id"`
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	reservation, err := h.store.CreateReservation(c.Request.Context(), mw.ActorFrom(c), store.ReservationInput{
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       req.Status,
		Notes:        req.Notes,
		DiningRoomID: req.DiningRoomID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *Handler) ListReservations(c *gin.Context) {
	var filter store.ReservationFilter

	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseReservationStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		filter.FromDate = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		filter.ToDate = &to
	}

	reservations, err := h.store.ListReservations(c.Request.Context(), mw.ActorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reservation, err := h.store.GetReservation(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

type reservationPatchRequest struct {
	Date         *string `json:"date"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
	DiningRoomID *int64  `json:"dining_room_id"`
}

func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req reservationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.ReservationPatch{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       req.Status,
		Notes:        req.Notes,
		DiningRoomID: req.DiningRoomID,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		patch.Date = &date
	}

	reservation, err := h.store.UpdateReservation(c.Request.Context(), mw.ActorFrom(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *Handler) DeleteReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteReservation(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bootstrap returns the whole reservation picture in one call, creating any
// missing orders on the way.
func (h *Handler) Bootstrap(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.store.Bootstrap(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

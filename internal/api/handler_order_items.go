package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/store"
)

type orderItemRequest struct {
	MenuItemID int64          `json:"menu_item_id" binding:"required"`
	Quantity   int            `json:"quantity" binding:"required"`
	Status     string         `json:"status"`
	Meta       datatypes.JSON `json:"meta"`
}

func (h *Handler) AddOrderItem(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.store.AddOrderItem(c.Request.Context(), mw.ActorFrom(c), orderID, store.OrderItemInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Status:     req.Status,
		Meta:       req.Meta,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) ListOrderItems(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	items, err := h.store.ListOrderItems(c.Request.Context(), mw.ActorFrom(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type orderItemPatchRequest struct {
	Quantity *int           `json:"quantity"`
	Status   *string        `json:"status"`
	Meta     datatypes.JSON `json:"meta"`
}

func (h *Handler) UpdateOrderItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req orderItemPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.store.UpdateOrderItem(c.Request.Context(), mw.ActorFrom(c), id, store.OrderItemPatch{
		Quantity: req.Quantity,
		Status:   req.Status,
		Meta:     req.Meta,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

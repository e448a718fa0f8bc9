package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// DiningRoomResponse represents the API response for a single dining room.
type DiningRoomResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TotalTables int64  `json:"total_tables"`
	TotalSeats  int64  `json:"total_seats"`
}

// GetDiningRooms handles the GET /api/dining_rooms request.
func GetDiningRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rooms []model.DiningRoom
		if err := db.Where("is_active = ?", true).Find(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dining rooms"})
			return
		}

		type AggRow struct {
			DiningRoomID int64
			TotalTables  int64
			TotalSeats   int64
		}
		var aggs []AggRow
		if err := db.
			Model(&model.Table{}).
			Select("dining_room_id, COUNT(*) as total_tables, COALESCE(SUM(seat_count), 0) as total_seats").
			Where("is_active = ?", true).
			Group("dining_room_id").
			Scan(&aggs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate tables"})
			return
		}

		aggMap := make(map[int64]AggRow, len(aggs))
		for _, a := range aggs {
			aggMap[a.DiningRoomID] = a
		}

		responses := make([]DiningRoomResponse, 0, len(rooms))
		for _, room := range rooms {
			a := aggMap[room.ID]
			responses = append(responses, DiningRoomResponse{
				ID: room.ID, Name: room.Name, Description: room.Description,
				TotalTables: a.TotalTables, TotalSeats: a.TotalSeats,
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// GetTables handles the GET /api/dining_rooms/{room_id}/tables request.
func GetTables(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room_id"})
			return
		}

		var tables []model.Table
		if err := db.
			Where("dining_room_id = ? AND is_active = ?", roomID, true).
			Order("name ASC").
			Find(&tables).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tables"})
			return
		}
		c.JSON(http.StatusOK, tables)
	}
}

// GetMenuItems handles the GET /api/menu_items request. Pass ?all=1 to
// include retired items.
func GetMenuItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("name ASC")
		if c.Query("all") == "" {
			q = q.Where("is_active = ?", true)
		}

		var items []model.MenuItem
		if err := q.Find(&items).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve menu items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

type diningRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateDiningRoom handles the staff POST /api/dining_rooms request.
func CreateDiningRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req diningRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		room := model.DiningRoom{Name: req.Name, Description: req.Description, IsActive: true}
		if err := db.Create(&room).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "dining room could not be created"})
			return
		}
		c.JSON(http.StatusCreated, room)
	}
}

type tableRequest struct {
	Name      string `json:"name" binding:"required"`
	SeatCount int    `json:"seat_count" binding:"required,min=1"`
}

// CreateTable handles the staff POST /api/dining_rooms/{room_id}/tables request.
func CreateTable(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room_id"})
			return
		}
		var req tableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var room model.DiningRoom
		if err := db.First(&room, roomID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "dining room not found"})
			return
		}

		table := model.Table{
			DiningRoomID: room.ID,
			Name:         req.Name,
			SeatCount:    req.SeatCount,
			IsActive:     true,
		}
		if err := db.Create(&table).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "table could not be created"})
			return
		}
		c.JSON(http.StatusCreated, table)
	}
}

type tablePatchRequest struct {
	Name      *string `json:"name"`
	SeatCount *int    `json:"seat_count"`
	IsActive  *bool   `json:"is_active"`
}

// UpdateTable handles the staff PATCH /api/tables/{id} request.
func UpdateTable(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req tablePatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var table model.Table
		if err := db.First(&table, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}

		if req.Name != nil {
			table.Name = *req.Name
		}
		if req.SeatCount != nil {
			if *req.SeatCount < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "seat_count must be at least 1"})
				return
			}
			table.SeatCount = *req.SeatCount
		}
		if req.IsActive != nil {
			table.IsActive = *req.IsActive
		}

		if err := db.Save(&table).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "table could not be updated"})
			return
		}
		c.JSON(http.StatusOK, table)
	}
}

type menuItemRequest struct {
	Name                string         `json:"name" binding:"required"`
	Description         string         `json:"description"`
	PriceCents          int64          `json:"price_cents" binding:"min=0"`
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions"`
}

// CreateMenuItem handles the staff POST /api/menu_items request.
func CreateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := model.MenuItem{
			Name:                req.Name,
			Description:         req.Description,
			PriceCents:          req.PriceCents,
			DietaryRestrictions: req.DietaryRestrictions,
			IsActive:            true,
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menu item could not be created"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

type menuItemPatchRequest struct {
	Name                *string        `json:"name"`
	Description         *string        `json:"description"`
	PriceCents          *int64         `json:"price_cents"`
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions"`
	IsActive            *bool          `json:"is_active"`
}

// UpdateMenuItem handles the staff PATCH /api/menu_items/{id} request.
// Price edits only affect future selections; order items carry snapshots.
func UpdateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req menuItemPatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var item model.MenuItem
		if err := db.First(&item, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}

		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.PriceCents != nil {
			if *req.PriceCents < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price_cents cannot be negative"})
				return
			}
			item.PriceCents = *req.PriceCents
		}
		if req.DietaryRestrictions != nil {
			item.DietaryRestrictions = req.DietaryRestrictions
		}
		if req.IsActive != nil {
			item.IsActive = *req.IsActive
		}

		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menu item could not be updated"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// RetireMenuItem deletes an unreferenced menu item and deactivates one that
// order history still points at.
func (h *Handler) RetireMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.RetireMenuItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

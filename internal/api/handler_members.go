package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"lodge-dining-backend/internal/mw"
	"lodge-dining-backend/internal/store"
)

// idParam parses a path parameter as an id, writing a 400 on failure.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

type memberRequest struct {
	Name                string         `json:"name" binding:"required"`
	Relation            string         `json:"relation"`
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions"`
}

func (h *Handler) CreateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.store.CreateMember(c.Request.Context(), mw.ActorFrom(c), store.MemberInput{
		Name:                req.Name,
		Relation:            req.Relation,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.store.ListMembers(c.Request.Context(), mw.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

type memberPatchRequest struct {
	Name                *string        `json:"name"`
	Relation            *string        `json:"relation"`
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions"`
}

func (h *Handler) UpdateMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req memberPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.store.UpdateMember(c.Request.Context(), mw.ActorFrom(c), id, store.MemberPatch{
		Name:                req.Name,
		Relation:            req.Relation,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteMember(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

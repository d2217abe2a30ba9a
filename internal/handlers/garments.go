package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"arwear-backend/internal/catalog"
	"arwear-backend/internal/models"
)

type GarmentsHandler struct {
	catalog *catalog.Client
}

func NewGarmentsHandler(catalogClient *catalog.Client) *GarmentsHandler {
	return &GarmentsHandler{catalog: catalogClient}
}

func (h *GarmentsHandler) List(c *gin.Context) {
	garments, err := h.catalog.ListGarments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if garments == nil {
		garments = []models.Garment{}
	}
	c.JSON(http.StatusOK, garments)
}

// SetAnimation links an animation to a garment so the app can display it on
// that garment surface.
func (h *GarmentsHandler) SetAnimation(c *gin.Context) {
	garmentID, err := uuid.Parse(c.Param("garment_id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: garment %q", models.ErrNotFound, c.Param("garment_id")))
		return
	}

	var req models.UpdateGarmentAnimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	animationID, err := uuid.Parse(req.AnimationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "animation_id must be a valid id"})
		return
	}

	updated, err := h.catalog.SetGarmentAnimation(c.Request.Context(), garmentID, animationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
		return
	}

	garment, err := h.catalog.GetGarment(c.Request.Context(), garmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, garment)
}

// DeleteAll purges every garment. Routed behind the admin gate.
func (h *GarmentsHandler) DeleteAll(c *gin.Context) {
	if _, err := h.catalog.DeleteAllGarments(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arwear-backend/internal/catalog"
	"arwear-backend/internal/media"
	"arwear-backend/internal/middleware"
	"arwear-backend/internal/models"
)

type LibraryHandler struct {
	catalog *catalog.Client
	media   *media.Service
}

func NewLibraryHandler(catalogClient *catalog.Client, mediaService *media.Service) *LibraryHandler {
	return &LibraryHandler{catalog: catalogClient, media: mediaService}
}

// Add saves an animation into the caller's library. The animation must
// exist; saving it twice is harmless.
func (h *LibraryHandler) Add(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "authentication required"})
		return
	}

	record, err := h.media.GetMetadata(c.Request.Context(), c.Param("animation_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.AddToLibrary(c.Request.Context(), *caller, record.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// List resolves the caller's saved animation ids to full records. Records
// deleted since they were saved are silently dropped from the result.
func (h *LibraryHandler) List(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "authentication required"})
		return
	}

	ids, err := h.catalog.ListLibraryAnimationIDs(c.Request.Context(), *caller)
	if err != nil {
		respondError(c, err)
		return
	}

	animations, err := h.catalog.GetAnimationsByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	if animations == nil {
		animations = []models.Animation{}
	}
	c.JSON(http.StatusOK, animations)
}

// Owned lists the animations the caller authored.
func (h *LibraryHandler) Owned(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "authentication required"})
		return
	}

	animations, err := h.media.ListByAuthor(c.Request.Context(), *caller)
	if err != nil {
		respondError(c, err)
		return
	}
	if animations == nil {
		animations = []models.Animation{}
	}
	c.JSON(http.StatusOK, animations)
}

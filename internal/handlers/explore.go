package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arwear-backend/internal/media"
)

type ExploreHandler struct {
	media *media.Service
}

func NewExploreHandler(mediaService *media.Service) *ExploreHandler {
	return &ExploreHandler{media: mediaService}
}

// Animations serves the paginated public feed with joined author previews.
func (h *ExploreHandler) Animations(c *gin.Context) {
	limit, offset := pageParams(c, media.DefaultFeedLimit)

	feed, err := h.media.ExploreFeed(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}

package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arwear-backend/internal/media"
	"arwear-backend/internal/middleware"
	"arwear-backend/internal/models"
)

type AnimationsHandler struct {
	media *media.Service
}

func NewAnimationsHandler(mediaService *media.Service) *AnimationsHandler {
	return &AnimationsHandler{media: mediaService}
}

// Create handles the multipart upload form: attributes plus a binary "file"
// part. The file part is streamed into the blob store, not buffered whole.
func (h *AnimationsHandler) Create(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "authentication required"})
		return
	}

	attrs, err := parseUploadForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid form", Message: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "file part is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open uploaded file"})
		return
	}
	defer src.Close()

	record, err := h.media.Upload(c.Request.Context(), attrs, src,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), *caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *AnimationsHandler) List(c *gin.Context) {
	limit, offset := pageParams(c, media.MaxFeedLimit)
	animations, _, err := h.media.ListAnimations(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if animations == nil {
		animations = []models.Animation{}
	}
	c.JSON(http.StatusOK, animations)
}

func (h *AnimationsHandler) Get(c *gin.Context) {
	record, err := h.media.GetMetadata(c.Request.Context(), c.Param("animation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetFile streams the animation payload with the blob's original content
// type and an attachment disposition carrying the original filename.
func (h *AnimationsHandler) GetFile(c *gin.Context) {
	stream, err := h.media.StreamFile(c.Request.Context(), c.Param("animation_id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer stream.Content.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": stream.Filename})
	c.DataFromReader(http.StatusOK, stream.Size, stream.ContentType, stream.Content,
		map[string]string{"Content-Disposition": disposition})
}

func (h *AnimationsHandler) Delete(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "authentication required"})
		return
	}

	if err := h.media.Delete(c.Request.Context(), c.Param("animation_id"), *caller); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// DeleteAll is the administrative purge. Routing puts it behind the admin
// gate, never behind ordinary user auth.
func (h *AnimationsHandler) DeleteAll(c *gin.Context) {
	if _, err := h.media.DeleteAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func parseUploadForm(c *gin.Context) (media.UploadAttrs, error) {
	width, err := strconv.Atoi(c.PostForm("physical_width"))
	if err != nil {
		return media.UploadAttrs{}, fmt.Errorf("physical_width must be an integer")
	}
	height, err := strconv.Atoi(c.PostForm("physical_height"))
	if err != nil {
		return media.UploadAttrs{}, fmt.Errorf("physical_height must be an integer")
	}

	isPublic := false
	if v := c.PostForm("is_public"); v != "" {
		isPublic, err = strconv.ParseBool(v)
		if err != nil {
			return media.UploadAttrs{}, fmt.Errorf("is_public must be a boolean")
		}
	}

	return media.UploadAttrs{
		Name:           c.PostForm("animation_name"),
		Description:    c.PostForm("animation_description"),
		IsPublic:       isPublic,
		PhysicalWidth:  width,
		PhysicalHeight: height,
	}, nil
}

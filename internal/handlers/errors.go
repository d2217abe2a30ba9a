package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"arwear-backend/internal/models"
)

// respondError maps the failure taxonomy onto HTTP status codes. Anything
// outside the taxonomy is treated as a storage-level failure: logged with
// context server-side, generic message to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "forbidden"})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
	}
}

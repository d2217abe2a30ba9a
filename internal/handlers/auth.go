package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"arwear-backend/internal/catalog"
	"arwear-backend/internal/models"
	"arwear-backend/internal/token"
)

type AuthHandler struct {
	catalog   *catalog.Client
	jwtSecret string
}

func NewAuthHandler(catalogClient *catalog.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{catalog: catalogClient, jwtSecret: jwtSecret}
}

// IssueToken mints a bearer token for an existing user.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
		return
	}

	if _, err := h.catalog.GetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	signed, err := token.Issue(h.jwtSecret, userID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: signed})
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"arwear-backend/internal/catalog"
	"arwear-backend/internal/models"
)

type UsersHandler struct {
	catalog *catalog.Client
}

func NewUsersHandler(catalogClient *catalog.Client) *UsersHandler {
	return &UsersHandler{catalog: catalogClient}
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	user, err := h.catalog.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.catalog.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) Get(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.catalog.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) Update(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	updated, err := h.catalog.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *UsersHandler) Delete(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	deleted, err := h.catalog.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *UsersHandler) ListGarments(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	// 404 for an unknown user, not an empty list.
	if _, err := h.catalog.GetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	garments, err := h.catalog.ListGarmentsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if garments == nil {
		garments = []models.Garment{}
	}
	c.JSON(http.StatusOK, garments)
}

func (h *UsersHandler) AddGarment(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.catalog.GetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	var req models.CreateGarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	garment, err := h.catalog.CreateGarment(c.Request.Context(), userID, req.Name, req.UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, garment)
}

func parseUserID(c *gin.Context) (uuid.UUID, error) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user %q", models.ErrNotFound, c.Param("user_id"))
	}
	return userID, nil
}

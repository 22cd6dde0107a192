package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/middleware"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/services"
)

// PartyHandler handles party HTTP requests
type PartyHandler struct {
	partyService *services.PartyService
	auditService *services.AuditService
	logger       *logrus.Logger
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(
	partyService *services.PartyService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *PartyHandler {
	return &PartyHandler{
		partyService: partyService,
		auditService: auditService,
		logger:       logger,
	}
}

// List returns the filtered party collection
func (h *PartyHandler) List(c *gin.Context) {
	parties, err := h.partyService.List(filterState(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list parties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list parties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parties": parties, "total": len(parties)})
}

// Get returns a single party
func (h *PartyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party ID"})
		return
	}

	party, err := h.partyService.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get party")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get party"})
		return
	}

	c.JSON(http.StatusOK, party)
}

// Create stores a new party
func (h *PartyHandler) Create(c *gin.Context) {
	var req models.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	party, err := h.partyService.Create(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create party")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		return
	}

	c.JSON(http.StatusCreated, party)
}

// Update applies a partial update to a party
func (h *PartyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party ID"})
		return
	}

	var req models.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	party, err := h.partyService.Update(id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, party)
}

// Delete removes a party
func (h *PartyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party ID"})
		return
	}

	if err := h.partyService.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if userCtx, ok := middleware.GetUserContext(c); ok {
		if err := h.auditService.LogDeletion(userCtx.UserID, "party", id, c.ClientIP(), c.Request.UserAgent()); err != nil {
			h.logger.WithError(err).Warn("Failed to write audit record")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Party deleted"})
}

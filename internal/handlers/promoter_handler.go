package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/middleware"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/services"
)

// PromoterHandler handles promoter HTTP requests
type PromoterHandler struct {
	promoterService *services.PromoterService
	contractService *services.ContractService
	auditService    *services.AuditService
	logger          *logrus.Logger
}

// NewPromoterHandler creates a new promoter handler
func NewPromoterHandler(
	promoterService *services.PromoterService,
	contractService *services.ContractService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *PromoterHandler {
	return &PromoterHandler{
		promoterService: promoterService,
		contractService: contractService,
		auditService:    auditService,
		logger:          logger,
	}
}

// List returns the filtered promoter collection with stats
func (h *PromoterHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	result, err := h.promoterService.List(filterState(c), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list promoters")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list promoters"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single promoter
func (h *PromoterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promoter ID"})
		return
	}

	promoter, err := h.promoterService.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promoter not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get promoter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get promoter"})
		return
	}

	c.JSON(http.StatusOK, promoter)
}

// Contracts returns the contracts assigned to a promoter
func (h *PromoterHandler) Contracts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promoter ID"})
		return
	}

	contracts, err := h.contractService.ListByPromoter(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list promoter contracts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list promoter contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contracts": contracts, "total": len(contracts)})
}

// Create stores a new promoter
func (h *PromoterHandler) Create(c *gin.Context) {
	var req models.CreatePromoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	promoter, err := h.promoterService.Create(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create promoter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promoter"})
		return
	}

	c.JSON(http.StatusCreated, promoter)
}

// Update applies a partial update to a promoter
func (h *PromoterHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promoter ID"})
		return
	}

	var req models.UpdatePromoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	promoter, err := h.promoterService.Update(id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promoter not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, promoter)
}

// Delete removes a promoter
func (h *PromoterHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promoter ID"})
		return
	}

	if err := h.promoterService.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promoter not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if userCtx, ok := middleware.GetUserContext(c); ok {
		if err := h.auditService.LogDeletion(userCtx.UserID, "promoter", id, c.ClientIP(), c.Request.UserAgent()); err != nil {
			h.logger.WithError(err).Warn("Failed to write audit record")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promoter deleted"})
}

// Export streams the filtered promoter collection as a CSV attachment
func (h *PromoterHandler) Export(c *gin.Context) {
	csv, err := h.promoterService.ExportCSV(filterState(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to export promoters")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export promoters"})
		return
	}

	if userCtx, ok := middleware.GetUserContext(c); ok {
		rows := countCSVRows(csv)
		if err := h.auditService.LogExport(userCtx.UserID, "promoters", rows, c.ClientIP(), c.Request.UserAgent()); err != nil {
			h.logger.WithError(err).Warn("Failed to write audit record")
		}
	}

	filename := fmt.Sprintf("promoters-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

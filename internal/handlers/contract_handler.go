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

	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/middleware"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/services"
)

// ContractHandler handles contract HTTP requests
type ContractHandler struct {
	contractService *services.ContractService
	auditService    *services.AuditService
	logger          *logrus.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(
	contractService *services.ContractService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		auditService:    auditService,
		logger:          logger,
	}
}

// List returns the filtered contract collection with stats
func (h *ContractHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	result, err := h.contractService.List(filterState(c), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list contracts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contracts"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single contract
func (h *ContractHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract ID"})
		return
	}

	contract, err := h.contractService.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get contract")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get contract"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Create stores a new contract
func (h *ContractHandler) Create(c *gin.Context) {
	var req models.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	contract, err := h.contractService.Create(&req)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateContractNumber) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// Update applies a partial update to a contract
func (h *ContractHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract ID"})
		return
	}

	var req models.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	contract, err := h.contractService.Update(id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Delete removes a contract
func (h *ContractHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract ID"})
		return
	}

	if err := h.contractService.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to delete contract")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}

	if userCtx, ok := middleware.GetUserContext(c); ok {
		if err := h.auditService.LogDeletion(userCtx.UserID, "contract", id, c.ClientIP(), c.Request.UserAgent()); err != nil {
			h.logger.WithError(err).Warn("Failed to write audit record")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// Export streams the filtered contract collection as a CSV attachment
func (h *ContractHandler) Export(c *gin.Context) {
	csv, err := h.contractService.ExportCSV(filterState(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to export contracts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export contracts"})
		return
	}

	if userCtx, ok := middleware.GetUserContext(c); ok {
		if err := h.auditService.LogExport(userCtx.UserID, "contracts", countCSVRows(csv), c.ClientIP(), c.Request.UserAgent()); err != nil {
			h.logger.WithError(err).Warn("Failed to write audit record")
		}
	}

	filename := fmt.Sprintf("contracts-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/filter"
	"github.com/contracthub/cms-backend/internal/services"
	"github.com/contracthub/cms-backend/internal/status"
)

// DashboardHandler serves the aggregate views of the admin dashboard
type DashboardHandler struct {
	promoterService *services.PromoterService
	contractService *services.ContractService
	notifications   *services.NotificationService
	notifier        *services.ExpiryNotifierService
	logger          *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	promoterService *services.PromoterService,
	contractService *services.ContractService,
	notifications *services.NotificationService,
	notifier *services.ExpiryNotifierService,
	logger *logrus.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		promoterService: promoterService,
		contractService: contractService,
		notifications:   notifications,
		notifier:        notifier,
		logger:          logger,
	}
}

// Summary returns the stat cards for the dashboard landing page
func (h *DashboardHandler) Summary(c *gin.Context) {
	promoters, err := h.promoterService.List(filter.State{}, 1, 0)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard summary"})
		return
	}

	contracts, err := h.contractService.List(filter.State{}, 1, 0)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard summary"})
		return
	}

	unread, err := h.notifications.UnreadCount()
	if err != nil {
		h.logger.WithError(err).Error("Failed to build dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promoters":            promoters.Stats,
		"contracts":            contracts.Stats,
		"unread_notifications": unread,
	})
}

// Expiring returns the attention lists: promoters with documents in the
// expiry window and contracts ending soon
func (h *DashboardHandler) Expiring(c *gin.Context) {
	windowDays := parseIntDefault(c.Query("window_days"), status.ExpiryWindowDays)
	if windowDays < 1 {
		windowDays = status.ExpiryWindowDays
	}

	promoters, err := h.promoterService.ListExpiring(windowDays)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list expiring documents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expiring documents"})
		return
	}

	contracts, err := h.contractService.ListEnding(windowDays)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ending contracts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ending contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_days":        windowDays,
		"expiring_promoters": promoters,
		"ending_contracts":   contracts,
	})
}

// RunExpiryScan triggers the notifier outside its schedule
func (h *DashboardHandler) RunExpiryScan(c *gin.Context) {
	if err := h.notifier.RunOnce(); err != nil {
		h.logger.WithError(err).Error("Manual expiry scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Expiry scan failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expiry scan complete"})
}

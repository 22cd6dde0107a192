package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/services"
)

// NotificationHandler handles notification center HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
	logger              *logrus.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the filtered notification collection with counters
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	result, err := h.notificationService.List(filterState(c), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnreadCount returns the unread badge count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count unread notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// Create stores a manual notification
func (h *NotificationHandler) Create(c *gin.Context) {
	var req models.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	notification, err := h.notificationService.Create(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create notification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// flagRequest toggles a boolean flag; absent means true so that a bare
// POST marks the flag on.
type flagRequest struct {
	Value *bool `json:"value"`
}

func (r flagRequest) bool() bool {
	if r.Value == nil {
		return true
	}
	return *r.Value
}

// MarkRead sets or clears the read flag on one notification
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.setFlag(c, h.notificationService.MarkRead)
}

// Star sets or clears the star flag on one notification
func (h *NotificationHandler) Star(c *gin.Context) {
	h.setFlag(c, h.notificationService.SetStarred)
}

// Archive moves a notification in or out of the archive tab
func (h *NotificationHandler) Archive(c *gin.Context) {
	h.setFlag(c, h.notificationService.SetArchived)
}

func (h *NotificationHandler) setFlag(c *gin.Context, apply func(uuid.UUID, bool) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := apply(id, req.bool()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification updated"})
}

// MarkAllRead marks every unread notification as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllRead()
	if err != nil {
		h.logger.WithError(err).Error("Failed to mark all notifications read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark all notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Delete removes a notification permanently
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.notificationService.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

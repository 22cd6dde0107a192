package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/events"
	"github.com/contracthub/cms-backend/internal/filter"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/stats"
)

// NotificationService handles the notification center: listing with
// tab and priority filters, read/star/archive flags, and creation on
// behalf of the expiry notifier.
type NotificationService struct {
	notificationRepo *database.NotificationRepository
	hub              *events.Hub
	logger           *logrus.Logger
	clock            func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *database.NotificationRepository, hub *events.Hub, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
		logger:           logger,
		clock:            time.Now,
	}
}

// NotificationListResult is the filtered notification collection with
// its counters
type NotificationListResult struct {
	Notifications []models.Notification    `json:"notifications"`
	Stats         models.NotificationStats `json:"stats"`
	Total         int                      `json:"total"`
	Page          int                      `json:"page"`
	PageSize      int                      `json:"page_size"`
}

// List returns notifications narrowed by the filter state. Stats cover
// the full collection so the unread badge is independent of the active
// tab.
func (s *NotificationService) List(st filter.State, page, pageSize int) (*NotificationListResult, error) {
	notifications, err := s.notificationRepo.List()
	if err != nil {
		return nil, err
	}

	collectionStats := stats.Notifications(notifications)
	filtered := filter.Notifications(notifications, st)

	return &NotificationListResult{
		Notifications: filter.Paginate(filtered, page, pageSize),
		Stats:         collectionStats,
		Total:         len(filtered),
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// UnreadCount returns the number of unread, unarchived notifications
func (s *NotificationService) UnreadCount() (int, error) {
	return s.notificationRepo.UnreadCount()
}

// Create stores a new notification and publishes a change event
func (s *NotificationService) Create(req *models.CreateNotificationRequest) (*models.Notification, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	n := &models.Notification{
		ID:        uuid.New(),
		Type:      req.Type,
		Priority:  priority,
		Title:     req.Title,
		Message:   req.Message,
		EntityID:  req.EntityID,
		CreatedAt: s.clock(),
	}
	if req.Category != "" {
		n.Category = models.NewNullString(req.Category)
	}
	if req.EntityType != "" {
		n.EntityType = models.NewNullString(req.EntityType)
	}

	if err := s.notificationRepo.Create(n); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"type":            n.Type,
		"priority":        n.Priority,
	}).Info("Notification created")

	s.hub.Publish(events.CollectionChanged{Entity: "notifications", Action: events.ActionCreated, EntityID: n.ID.String()})
	return n, nil
}

// MarkRead toggles the read flag of one notification
func (s *NotificationService) MarkRead(id uuid.UUID, read bool) error {
	if err := s.notificationRepo.MarkRead(id, read); err != nil {
		return err
	}
	s.hub.Publish(events.CollectionChanged{Entity: "notifications", Action: events.ActionUpdated, EntityID: id.String()})
	return nil
}

// MarkAllRead marks every unread notification as read and returns how
// many were updated
func (s *NotificationService) MarkAllRead() (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead()
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.logger.WithField("count", updated).Info("Marked all notifications read")
		s.hub.Publish(events.CollectionChanged{Entity: "notifications", Action: events.ActionUpdated})
	}
	return updated, nil
}

// SetStarred toggles the star flag of one notification
func (s *NotificationService) SetStarred(id uuid.UUID, starred bool) error {
	if err := s.notificationRepo.SetStarred(id, starred); err != nil {
		return err
	}
	s.hub.Publish(events.CollectionChanged{Entity: "notifications", Action: events.ActionUpdated, EntityID: id.String()})
	return nil
}

// SetArchived moves a notification in or out of the archive tab
func (s *NotificationService) SetArchived(id uuid.UUID, archived bool) error {
	if err := s.notificationRepo.SetArchived(id, archived); err != nil {
		return err
	}
	s.hub.Publish(events.CollectionChanged{Entity: "notifications", Action: events.ActionUpdated, EntityID: id.String()})
	return nil
}

// Delete removes a notification permanently
func (s *NotificationService) Delete(id uuid.UUID) error {
	if err := s.notificationRepo.Delete(id); err != nil {
		return err
	}
	s.hub.Publish(events.CollectionChanged{Entity: "notifications", Action: events.ActionDeleted, EntityID: id.String()})
	return nil
}

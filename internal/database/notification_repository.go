package database

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/contracthub/cms-backend/internal/models"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// List returns all notifications, newest first
func (r *NotificationRepository) List() ([]models.Notification, error) {
	query := `
		SELECT id, type, category, priority, title, message,
		       entity_type, entity_id,
		       is_read, is_starred, is_archived, created_at
		FROM notifications
		ORDER BY created_at DESC
	`

	notifications := []models.Notification{}
	if err := r.db.Select(&notifications, query); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// Create inserts a new notification
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (
			id, type, category, priority, title, message,
			entity_type, entity_id,
			is_read, is_starred, is_archived, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		n.ID,
		n.Type,
		n.Category,
		n.Priority,
		n.Title,
		n.Message,
		n.EntityType,
		n.EntityID,
		n.IsRead,
		n.IsStarred,
		n.IsArchived,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ExistsForEntitySince reports whether a notification of the given type
// already exists for an entity on or after the cutoff. The expiry
// notifier uses this to avoid re-alerting on every cycle.
func (r *NotificationRepository) ExistsForEntitySince(notificationType string, entityType string, entityID uuid.UUID, sinceDays int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = $1 AND entity_type = $2 AND entity_id = $3
			  AND created_at >= NOW() - ($4 || ' days')::interval
		)
	`

	var exists bool
	if err := r.db.Get(&exists, query, notificationType, entityType, entityID, sinceDays); err != nil {
		return false, fmt.Errorf("failed to check existing notifications: %w", err)
	}
	return exists, nil
}

// UnreadCount returns the number of unread, unarchived notifications
func (r *NotificationRepository) UnreadCount() (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM notifications WHERE is_read = FALSE AND is_archived = FALSE"
	if err := r.db.Get(&count, query); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead sets the read flag on a notification
func (r *NotificationRepository) MarkRead(id uuid.UUID, read bool) error {
	return r.setFlag(id, "is_read", read)
}

// MarkAllRead sets the read flag on every unarchived notification
func (r *NotificationRepository) MarkAllRead() (int64, error) {
	result, err := r.db.Exec("UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE AND is_archived = FALSE")
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return result.RowsAffected()
}

// SetStarred sets the starred flag on a notification
func (r *NotificationRepository) SetStarred(id uuid.UUID, starred bool) error {
	return r.setFlag(id, "is_starred", starred)
}

// SetArchived sets the archived flag on a notification
func (r *NotificationRepository) SetArchived(id uuid.UUID, archived bool) error {
	return r.setFlag(id, "is_archived", archived)
}

func (r *NotificationRepository) setFlag(id uuid.UUID, column string, value bool) error {
	query := fmt.Sprintf("UPDATE notifications SET %s = $1 WHERE id = $2", column)

	result, err := r.db.Exec(query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

// Delete removes a notification record
func (r *NotificationRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

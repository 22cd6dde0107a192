package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification priorities, ordered for priority sorting
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// PriorityRank maps a priority string to its sort weight.
// Unknown priorities rank below low.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Notification represents a dashboard notification, typically produced
// by the expiry notifier or by entity mutations.
type Notification struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Type       string     `json:"type" db:"type"`
	Category   NullString `json:"category,omitempty" db:"category"`
	Priority   string     `json:"priority" db:"priority"`
	Title      string     `json:"title" db:"title"`
	Message    string     `json:"message" db:"message"`
	EntityType NullString `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty" db:"entity_id"`
	IsRead     bool       `json:"is_read" db:"is_read"`
	IsStarred  bool       `json:"is_starred" db:"is_starred"`
	IsArchived bool       `json:"is_archived" db:"is_archived"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// CreateNotificationRequest is the payload for creating a notification
type CreateNotificationRequest struct {
	Type       string     `json:"type" binding:"required"`
	Category   string     `json:"category"`
	Priority   string     `json:"priority"`
	Title      string     `json:"title" binding:"required"`
	Message    string     `json:"message" binding:"required"`
	EntityType string     `json:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id"`
}

// NotificationStats summarizes a notification collection
type NotificationStats struct {
	Total      int            `json:"total"`
	Unread     int            `json:"unread"`
	Starred    int            `json:"starred"`
	ByPriority map[string]int `json:"by_priority"`
	ByType     map[string]int `json:"by_type"`
}

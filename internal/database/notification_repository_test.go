package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contracthub/cms-backend/internal/models"
)

func TestNotificationCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewNotificationRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		entityID := uuid.New()
		n := &models.Notification{
			ID:         uuid.New(),
			Type:       "document_expiry",
			Priority:   models.PriorityHigh,
			Title:      "ID card expiring",
			Message:    "ID card for Ahmed expires in 12 days",
			EntityType: models.NewNullString("promoter"),
			EntityID:   &entityID,
			CreatedAt:  time.Now(),
		}

		mock.ExpectExec("INSERT INTO notifications").
			WithArgs(
				n.ID, n.Type, n.Category, n.Priority, n.Title, n.Message,
				n.EntityType, n.EntityID,
				n.IsRead, n.IsStarred, n.IsArchived, n.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(n)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		n := &models.Notification{ID: uuid.New(), Type: "system", Priority: models.PriorityLow, CreatedAt: time.Now()}

		mock.ExpectExec("INSERT INTO notifications").
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(n)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create notification")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewNotificationRepository(mockDB)

	t.Run("Mark Read", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec("UPDATE notifications SET is_read").
			WithArgs(true, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkRead(id, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Star Unknown ID", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec("UPDATE notifications SET is_starred").
			WithArgs(true, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetStarred(id, true)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "notification not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Mark All Read", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
			WillReturnResult(sqlmock.NewResult(0, 7))

		updated, err := repo.MarkAllRead()
		require.NoError(t, err)
		assert.Equal(t, int64(7), updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewNotificationRepository(mockDB)

	id := uuid.New()

	mock.ExpectExec("DELETE FROM notifications").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

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

func TestAdminUserCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewAdminUserRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		user := &models.AdminUser{
			ID:           uuid.New(),
			Email:        "admin@example.com",
			PasswordHash: "$2a$12$hash",
			FullName:     models.NewNullString("Jane Admin"),
			Role:         models.RoleAdmin,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		mock.ExpectExec("INSERT INTO admin_users").
			WithArgs(
				user.ID, user.Email, user.PasswordHash,
				user.FullName, user.Role, user.Status,
				user.CreatedAt, user.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(user)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		user := &models.AdminUser{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()}

		mock.ExpectExec("INSERT INTO admin_users").
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(user)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create admin user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminUserTouchLastLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewAdminUserRepository(mockDB)

	id := uuid.New()

	mock.ExpectExec("UPDATE admin_users SET last_login_at").
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TouchLastLogin(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

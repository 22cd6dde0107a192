package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contracthub/cms-backend/internal/config"
	"github.com/contracthub/cms-backend/internal/database"
)

func setupRateLimitTest(t *testing.T) (*RateLimitService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	postgresDB := &database.PostgresDB{DB: sqlxDB}
	service := NewRateLimitService(postgresDB, config.RateLimitConfig{Attempts: 5, WindowMinutes: 15})

	return service, mock, func() { db.Close() }
}

func TestCheckLoginRateLimit_NoAttempts(t *testing.T) {
	service, mock, cleanup := setupRateLimitTest(t)
	defer cleanup()

	email := "admin@example.com"
	ip := "192.168.1.1"

	mock.ExpectQuery("SELECT COUNT(.+) FROM login_attempts").
		WithArgs(email, "email", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count", "created_at"}).AddRow(0, time.Now()))

	mock.ExpectQuery("SELECT COUNT(.+) FROM login_attempts").
		WithArgs(ip, "ip", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count", "created_at"}).AddRow(0, time.Now()))

	err := service.CheckLoginRateLimit(email, ip)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckLoginRateLimit_EmailExceeded(t *testing.T) {
	service, mock, cleanup := setupRateLimitTest(t)
	defer cleanup()

	email := "admin@example.com"
	lastAttempt := time.Now().Add(-5 * time.Minute)

	mock.ExpectQuery("SELECT COUNT(.+) FROM login_attempts").
		WithArgs(email, "email", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count", "created_at"}).AddRow(5, lastAttempt))

	err := service.CheckLoginRateLimit(email, "192.168.1.1")
	require.Error(t, err)

	rateLimitErr, ok := err.(*RateLimitError)
	require.True(t, ok, "Error should be RateLimitError")
	assert.Equal(t, "email", rateLimitErr.Type)
	assert.Contains(t, rateLimitErr.Message, "Too many login attempts for this account")
	assert.True(t, rateLimitErr.RetryAfter.After(time.Now()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailedLogin(t *testing.T) {
	service, mock, cleanup := setupRateLimitTest(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO login_attempts").
		WithArgs("admin@example.com", "email").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec("INSERT INTO login_attempts").
		WithArgs("192.168.1.1", "ip").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := service.RecordFailedLogin("admin@example.com", "192.168.1.1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearAttempts(t *testing.T) {
	service, mock, cleanup := setupRateLimitTest(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM login_attempts").
		WithArgs("admin@example.com").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := service.ClearAttempts("admin@example.com")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

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
	"github.com/contracthub/cms-backend/internal/events"
	"github.com/contracthub/cms-backend/internal/models"
)

func setupNotifierTest(t *testing.T, now time.Time) (*ExpiryNotifierService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	postgresDB := &database.PostgresDB{DB: sqlxDB}

	notificationRepo := database.NewNotificationRepository(postgresDB)
	notifications := NewNotificationService(notificationRepo, events.NewHub(testLogger), testLogger)

	service := NewExpiryNotifierService(
		database.NewPromoterRepository(postgresDB),
		database.NewContractRepository(postgresDB),
		notificationRepo,
		notifications,
		config.NotifierConfig{Enabled: true, Schedule: "0 0 6 * * *"},
		testLogger,
	)
	service.clock = func() time.Time { return now }

	return service, mock, func() { db.Close() }
}

func TestRunOnceRaisesDocumentAlert(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	service, mock, cleanup := setupNotifierTest(t, now)
	defer cleanup()

	expiring := now.AddDate(0, 0, 5)

	promoterRows := sqlmock.NewRows(promoterRowColumns).
		AddRow("6a8e23aa-0f1c-4dd5-9f3e-111111111111", "Ahmed Al Balushi", nil,
			"ID-100", expiring, nil, nil,
			nil, nil, nil, now, now, 0, 0)

	mock.ExpectQuery("SELECT (.+) FROM promoters").WillReturnRows(promoterRows)

	// No recent duplicate for the expiring ID card.
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery("SELECT (.+) FROM contracts").
		WillReturnRows(sqlmock.NewRows(contractRowColumns))

	require.NoError(t, service.RunOnce())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceAlertsEachDocument(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	service, mock, cleanup := setupNotifierTest(t, now)
	defer cleanup()

	promoterID := "6a8e23aa-0f1c-4dd5-9f3e-111111111111"
	idCardExpiry := now.AddDate(0, 0, 3)
	passportExpiry := now.AddDate(0, 0, 20)

	promoterRows := sqlmock.NewRows(promoterRowColumns).
		AddRow(promoterID, "Ahmed Al Balushi", nil,
			"ID-100", idCardExpiry, "P-100", passportExpiry,
			nil, nil, nil, now, now, 0, 0)

	mock.ExpectQuery("SELECT (.+) FROM promoters").WillReturnRows(promoterRows)

	// Each document is deduplicated under its own type, so the freshly
	// inserted ID-card alert must not suppress the passport alert.
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(NotificationIDCardExpiry, "promoter", mustUUID(t, promoterID), 7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(NotificationPassportExpiry, "promoter", mustUUID(t, promoterID), 7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery("SELECT (.+) FROM contracts").
		WillReturnRows(sqlmock.NewRows(contractRowColumns))

	require.NoError(t, service.RunOnce())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceDeduplicates(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	service, mock, cleanup := setupNotifierTest(t, now)
	defer cleanup()

	expiring := now.AddDate(0, 0, 5)

	promoterRows := sqlmock.NewRows(promoterRowColumns).
		AddRow("6a8e23aa-0f1c-4dd5-9f3e-111111111111", "Ahmed Al Balushi", nil,
			"ID-100", expiring, nil, nil,
			nil, nil, nil, now, now, 0, 0)

	mock.ExpectQuery("SELECT (.+) FROM promoters").WillReturnRows(promoterRows)

	// A matching alert already exists inside the dedup window, so no
	// insert happens.
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT (.+) FROM contracts").
		WillReturnRows(sqlmock.NewRows(contractRowColumns))

	require.NoError(t, service.RunOnce())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpiryPriority(t *testing.T) {
	assert.Equal(t, models.PriorityUrgent, expiryPriority(-3))
	assert.Equal(t, models.PriorityHigh, expiryPriority(0))
	assert.Equal(t, models.PriorityHigh, expiryPriority(7))
	assert.Equal(t, models.PriorityMedium, expiryPriority(8))
	assert.Equal(t, models.PriorityMedium, expiryPriority(30))
}

func TestExpiryPhrase(t *testing.T) {
	assert.Equal(t, "expired 3 days ago", expiryPhrase(-3))
	assert.Equal(t, "expires today", expiryPhrase(0))
	assert.Equal(t, "expires tomorrow", expiryPhrase(1))
	assert.Equal(t, "expires in 12 days", expiryPhrase(12))
}

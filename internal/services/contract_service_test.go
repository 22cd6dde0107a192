package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/events"
	"github.com/contracthub/cms-backend/internal/filter"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/status"
)

func setupContractTest(t *testing.T, now time.Time) (*ContractService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	postgresDB := &database.PostgresDB{DB: sqlxDB}

	service := NewContractService(database.NewContractRepository(postgresDB), events.NewHub(testLogger), testLogger)
	service.clock = func() time.Time { return now }

	return service, mock, func() { db.Close() }
}

var contractRowColumns = []string{
	"id", "contract_number",
	"first_party_id", "second_party_id", "promoter_id",
	"job_title", "work_location",
	"contract_start_date", "contract_end_date",
	"contract_value", "currency", "status",
	"google_doc_url", "pdf_url",
	"created_at", "updated_at",
	"first_party_name_en", "second_party_name_en", "promoter_name_en",
}

func TestContractListDerivesStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service, mock, cleanup := setupContractTest(t, now)
	defer cleanup()

	firstParty := uuid.New().String()
	secondParty := uuid.New().String()

	rows := sqlmock.NewRows(contractRowColumns).
		// Stored status wins over dates that would derive expired.
		AddRow(uuid.New().String(), "CT-001", firstParty, secondParty, nil,
			nil, nil, now.AddDate(-1, 0, 0), now.AddDate(0, 0, -5),
			nil, nil, "terminated", nil, nil, now, now,
			"Alpha LLC", "Beta SAOC", nil).
		// Inside active window but within the look-ahead.
		AddRow(uuid.New().String(), "CT-002", firstParty, secondParty, nil,
			nil, nil, now.AddDate(0, 0, -10), now.AddDate(0, 0, 5),
			12000.0, "OMR", nil, nil, nil, now, now,
			"Alpha LLC", "Beta SAOC", nil).
		// No dates, PDF present.
		AddRow(uuid.New().String(), "CT-003", firstParty, secondParty, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil, "https://cdn.example.com/ct-003.pdf", now, now,
			"Alpha LLC", "Beta SAOC", nil)

	mock.ExpectQuery("SELECT (.+) FROM contracts").WillReturnRows(rows)

	result, err := service.List(filter.State{}, 1, 50)
	require.NoError(t, err)
	require.Len(t, result.Contracts, 3)

	assert.Equal(t, "terminated", result.Contracts[0].ComputedStatus)
	assert.Equal(t, status.ContractSoonToExpire, result.Contracts[1].ComputedStatus)
	assert.Equal(t, status.ContractGenerated, result.Contracts[2].ComputedStatus)

	assert.Equal(t, 3, result.Stats.Total)
	assert.InDelta(t, 12000.0, result.Stats.TotalValue, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractListDurationLabels(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service, mock, cleanup := setupContractTest(t, now)
	defer cleanup()

	firstParty := uuid.New().String()
	secondParty := uuid.New().String()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(contractRowColumns).
		AddRow(uuid.New().String(), "CT-010", firstParty, secondParty, nil,
			nil, nil, start, start.AddDate(0, 0, 14),
			nil, nil, nil, nil, nil, now, now, nil, nil, nil).
		AddRow(uuid.New().String(), "CT-011", firstParty, secondParty, nil,
			nil, nil, start, start.AddDate(0, 0, 92),
			nil, nil, nil, nil, nil, now, now, nil, nil, nil).
		AddRow(uuid.New().String(), "CT-012", firstParty, secondParty, nil,
			nil, nil, start, start.AddDate(2, 0, 0),
			nil, nil, nil, nil, nil, now, now, nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM contracts").WillReturnRows(rows)

	result, err := service.List(filter.State{}, 1, 50)
	require.NoError(t, err)
	require.Len(t, result.Contracts, 3)

	assert.Equal(t, "14 days", result.Contracts[0].DurationLabel)
	assert.Equal(t, "3 months", result.Contracts[1].DurationLabel)
	assert.Equal(t, "2 years", result.Contracts[2].DurationLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractCreateValidation(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service, _, cleanup := setupContractTest(t, now)
	defer cleanup()

	party := uuid.New()

	t.Run("Same Parties", func(t *testing.T) {
		_, err := service.Create(&models.CreateContractRequest{
			ContractNumber: "CT-100",
			FirstPartyID:   party,
			SecondPartyID:  party,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "same organization")
	})

	t.Run("End Before Start", func(t *testing.T) {
		start := now
		end := now.AddDate(0, 0, -1)
		_, err := service.Create(&models.CreateContractRequest{
			ContractNumber:    "CT-101",
			FirstPartyID:      party,
			SecondPartyID:     uuid.New(),
			ContractStartDate: &start,
			ContractEndDate:   &end,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot precede")
	})
}

package stats

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/status"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestPromoters_EmptyCollection(t *testing.T) {
	s := Promoters(nil, now)

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.RecentlyAdded)
	assert.Zero(t, s.AverageContractsPerPromoter, "empty input must not divide by zero")
	assert.Empty(t, s.ByStatus)
}

func TestPromoters_CountsAndAverage(t *testing.T) {
	records := []models.Promoter{
		{OverallStatus: status.OverallActive, DocumentStatus: status.DocumentValid, ActiveContractsCount: 3, CreatedAt: now.AddDate(0, 0, -1)},
		{OverallStatus: status.OverallActive, DocumentStatus: status.DocumentValid, ActiveContractsCount: 1, CreatedAt: now.AddDate(0, -1, 0)},
		{OverallStatus: status.OverallCritical, DocumentStatus: status.DocumentExpired, ActiveContractsCount: 0, CreatedAt: now.AddDate(0, 0, -3)},
		{OverallStatus: status.OverallInactive, DocumentStatus: status.DocumentValid, ActiveContractsCount: 0, CreatedAt: now.AddDate(0, 0, -20)},
	}

	s := Promoters(records, now)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByStatus[status.OverallActive])
	assert.Equal(t, 1, s.ByStatus[status.OverallCritical])
	assert.Equal(t, 1, s.ByStatus[status.OverallInactive])
	assert.Equal(t, 3, s.ByDocumentStatus[status.DocumentValid])
	assert.Equal(t, 1, s.ByDocumentStatus[status.DocumentExpired])
	assert.Equal(t, 2, s.RecentlyAdded, "only records inside the 7 day window")
	assert.InDelta(t, 1.0, s.AverageContractsPerPromoter, 0.0001)
}

func TestContracts_StatusBreakdownAndValue(t *testing.T) {
	records := []models.Contract{
		{ComputedStatus: status.ContractActive, CreatedAt: now.AddDate(0, 0, -2), ContractValue: models.NullFloat64{NullFloat64: sql.NullFloat64{Float64: 1500, Valid: true}}},
		{ComputedStatus: status.ContractActive, CreatedAt: now.AddDate(0, -2, 0), ContractValue: models.NullFloat64{NullFloat64: sql.NullFloat64{Float64: 2500, Valid: true}}},
		{ComputedStatus: status.ContractExpired, CreatedAt: now.AddDate(-1, 0, 0)},
	}

	s := Contracts(records, now)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByStatus[status.ContractActive])
	assert.Equal(t, 1, s.ByStatus[status.ContractExpired])
	assert.Equal(t, 1, s.RecentlyAdded)
	assert.InDelta(t, 4000.0, s.TotalValue, 0.0001)
}

func TestNotifications_Counts(t *testing.T) {
	records := []models.Notification{
		{Type: "document_expiry", Priority: models.PriorityUrgent},
		{Type: "document_expiry", Priority: models.PriorityHigh, IsRead: true, IsStarred: true},
		{Type: "contract_expiry", Priority: models.PriorityMedium, IsArchived: true},
	}

	s := Notifications(records)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Unread, "read and archived records are not unread")
	assert.Equal(t, 1, s.Starred)
	assert.Equal(t, 2, s.ByType["document_expiry"])
	assert.Equal(t, 1, s.ByPriority[models.PriorityUrgent])
}

package filter

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/status"
)

var testBase = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func testPromoter(name string, overall, doc string, active int, created time.Time) models.Promoter {
	return models.Promoter{
		ID:                   uuid.New(),
		NameEn:               models.NewNullString(name),
		Email:                models.NewNullString(name + "@example.com"),
		OverallStatus:        overall,
		DocumentStatus:       doc,
		ActiveContractsCount: active,
		CreatedAt:            created,
	}
}

func TestPromoters_IdentityWhenAllFiltersAreNoOps(t *testing.T) {
	records := []models.Promoter{
		testPromoter("Charlie", status.OverallActive, status.DocumentValid, 2, testBase),
		testPromoter("Alice", status.OverallWarning, status.DocumentExpiring, 1, testBase.AddDate(0, 0, 1)),
		testPromoter("Bob", status.OverallInactive, status.DocumentValid, 0, testBase.AddDate(0, 0, 2)),
	}

	out := Promoters(records, State{Status: SelectAll, DocumentStatus: SelectAll, ContractPresence: SelectAll})

	require.Len(t, out, len(records))
	for i := range records {
		assert.Equal(t, records[i].ID, out[i].ID, "order must be preserved")
	}
}

func TestPromoters_SearchIsCaseInsensitive(t *testing.T) {
	records := []models.Promoter{
		testPromoter("John Smith", status.OverallActive, status.DocumentValid, 1, testBase),
		testPromoter("Jane Doe", status.OverallActive, status.DocumentValid, 1, testBase),
	}

	out := Promoters(records, State{Search: "john"})
	require.Len(t, out, 1)
	assert.Equal(t, "John Smith", out[0].NameEn.String)
}

func TestPromoters_SearchSpansIdentifierFields(t *testing.T) {
	p := testPromoter("Ahmed", status.OverallActive, status.DocumentValid, 1, testBase)
	p.PassportNumber = models.NewNullString("P8812345")

	out := Promoters([]models.Promoter{p}, State{Search: "p8812"})
	assert.Len(t, out, 1)

	out = Promoters([]models.Promoter{p}, State{Search: "missing"})
	assert.Empty(t, out)
}

func TestPromoters_StatusAndDocumentFilters(t *testing.T) {
	records := []models.Promoter{
		testPromoter("A", status.OverallCritical, status.DocumentExpired, 3, testBase),
		testPromoter("B", status.OverallWarning, status.DocumentExpiring, 1, testBase),
		testPromoter("C", status.OverallActive, status.DocumentValid, 1, testBase),
	}

	out := Promoters(records, State{Status: Selection(status.OverallCritical)})
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].NameEn.String)

	out = Promoters(records, State{DocumentStatus: Selection(status.DocumentExpiring)})
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].NameEn.String)
}

func TestPromoters_ContractPresence(t *testing.T) {
	records := []models.Promoter{
		testPromoter("Busy", status.OverallActive, status.DocumentValid, 4, testBase),
		testPromoter("Idle", status.OverallInactive, status.DocumentValid, 0, testBase),
	}

	out := Promoters(records, State{ContractPresence: WithContracts})
	require.Len(t, out, 1)
	assert.Equal(t, "Busy", out[0].NameEn.String)

	out = Promoters(records, State{ContractPresence: WithoutContracts})
	require.Len(t, out, 1)
	assert.Equal(t, "Idle", out[0].NameEn.String)
}

func TestPromoters_DateRange(t *testing.T) {
	records := []models.Promoter{
		testPromoter("Old", status.OverallActive, status.DocumentValid, 1, testBase.AddDate(0, -2, 0)),
		testPromoter("New", status.OverallActive, status.DocumentValid, 1, testBase),
	}

	from := testBase.AddDate(0, -1, 0)
	out := Promoters(records, State{DateFrom: &from})
	require.Len(t, out, 1)
	assert.Equal(t, "New", out[0].NameEn.String)

	to := testBase.AddDate(0, -1, 0)
	out = Promoters(records, State{DateTo: &to})
	require.Len(t, out, 1)
	assert.Equal(t, "Old", out[0].NameEn.String)
}

func TestPromoters_SortNewestAndOldest(t *testing.T) {
	records := []models.Promoter{
		testPromoter("Middle", status.OverallActive, status.DocumentValid, 1, testBase.AddDate(0, 0, 1)),
		testPromoter("Newest", status.OverallActive, status.DocumentValid, 1, testBase.AddDate(0, 0, 2)),
		testPromoter("Oldest", status.OverallActive, status.DocumentValid, 1, testBase),
	}

	out := Promoters(records, State{Sort: SortNewest})
	require.Len(t, out, 3)
	assert.Equal(t, "Newest", out[0].NameEn.String)
	assert.Equal(t, "Oldest", out[2].NameEn.String)

	out = Promoters(records, State{Sort: SortOldest})
	assert.Equal(t, "Oldest", out[0].NameEn.String)
}

func TestContracts_FilterByComputedStatus(t *testing.T) {
	records := []models.Contract{
		{ID: uuid.New(), ContractNumber: "CON-001", ComputedStatus: status.ContractActive, CreatedAt: testBase},
		{ID: uuid.New(), ContractNumber: "CON-002", ComputedStatus: status.ContractExpired, CreatedAt: testBase},
		{ID: uuid.New(), ContractNumber: "CON-003", ComputedStatus: status.ContractSoonToExpire, CreatedAt: testBase},
	}

	out := Contracts(records, State{Status: Selection(status.ContractExpired)})
	require.Len(t, out, 1)
	assert.Equal(t, "CON-002", out[0].ContractNumber)
}

func TestContracts_SearchAcrossPartyNames(t *testing.T) {
	records := []models.Contract{
		{
			ID:               uuid.New(),
			ContractNumber:   "CON-100",
			FirstPartyNameEn: models.NewNullString("Falcon Trading LLC"),
			CreatedAt:        testBase,
		},
		{
			ID:                uuid.New(),
			ContractNumber:    "CON-101",
			SecondPartyNameEn: models.NewNullString("Desert Rose Est."),
			CreatedAt:         testBase,
		},
	}

	out := Contracts(records, State{Search: "falcon"})
	require.Len(t, out, 1)
	assert.Equal(t, "CON-100", out[0].ContractNumber)
}

func TestNotifications_FiltersAndSorts(t *testing.T) {
	records := []models.Notification{
		{ID: uuid.New(), Type: "document_expiry", Priority: models.PriorityLow, Title: "low", CreatedAt: testBase},
		{ID: uuid.New(), Type: "contract_expiry", Priority: models.PriorityUrgent, Title: "urgent", CreatedAt: testBase.AddDate(0, 0, 1)},
		{ID: uuid.New(), Type: "document_expiry", Priority: models.PriorityHigh, Title: "high", CreatedAt: testBase.AddDate(0, 0, 2)},
		{ID: uuid.New(), Type: "system", Priority: models.PriorityMedium, Title: "archived", IsArchived: true, CreatedAt: testBase},
	}

	t.Run("archived excluded by default", func(t *testing.T) {
		out := Notifications(records, State{})
		assert.Len(t, out, 3)
	})

	t.Run("archived tab", func(t *testing.T) {
		out := Notifications(records, State{Status: "archived"})
		require.Len(t, out, 1)
		assert.Equal(t, "archived", out[0].Title)
	})

	t.Run("type filter", func(t *testing.T) {
		out := Notifications(records, State{Status: "document_expiry"})
		assert.Len(t, out, 2)
	})

	t.Run("priority sort is descending by rank", func(t *testing.T) {
		out := Notifications(records, State{Sort: SortPriority})
		require.Len(t, out, 3)
		assert.Equal(t, models.PriorityUrgent, out[0].Priority)
		assert.Equal(t, models.PriorityHigh, out[1].Priority)
		assert.Equal(t, models.PriorityLow, out[2].Priority)
	})

	t.Run("priority filter", func(t *testing.T) {
		out := Notifications(records, State{Priority: Selection(models.PriorityUrgent)})
		require.Len(t, out, 1)
		assert.Equal(t, "urgent", out[0].Title)
	})
}

func TestPaginate(t *testing.T) {
	records := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Paginate(records, 1, 3))
	assert.Equal(t, []int{4, 5, 6}, Paginate(records, 2, 3))
	assert.Equal(t, []int{7}, Paginate(records, 3, 3))
	assert.Empty(t, Paginate(records, 4, 3))
	assert.Equal(t, records, Paginate(records, 1, 0), "non-positive size returns everything")
	assert.Equal(t, []int{1, 2, 3}, Paginate(records, 0, 3), "page floor is 1")
}

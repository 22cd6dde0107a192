// Package stats reduces annotated record collections into the summary
// counts shown on the dashboard cards. Every function is a single pass
// over its input with no external calls.
package stats

import (
	"time"

	"github.com/contracthub/cms-backend/internal/models"
)

// RecentWindowDays is the look-back window for "recently added" counts.
const RecentWindowDays = 7

// Promoters computes the promoter summary. The records are expected to
// be annotated (overall/document status and contract counts set). An
// empty collection yields zero counts and a zero average.
func Promoters(records []models.Promoter, now time.Time) models.PromoterStats {
	s := models.PromoterStats{
		ByStatus:         make(map[string]int),
		ByDocumentStatus: make(map[string]int),
	}
	recentCutoff := now.AddDate(0, 0, -RecentWindowDays)

	activeContracts := 0
	for _, p := range records {
		s.Total++
		s.ByStatus[p.OverallStatus]++
		s.ByDocumentStatus[p.DocumentStatus]++
		if p.CreatedAt.After(recentCutoff) {
			s.RecentlyAdded++
		}
		activeContracts += p.ActiveContractsCount
	}

	if s.Total > 0 {
		s.AverageContractsPerPromoter = float64(activeContracts) / float64(s.Total)
	}
	return s
}

// Contracts computes the contract summary over computed statuses.
func Contracts(records []models.Contract, now time.Time) models.ContractStats {
	s := models.ContractStats{
		ByStatus: make(map[string]int),
	}
	recentCutoff := now.AddDate(0, 0, -RecentWindowDays)

	for _, c := range records {
		s.Total++
		s.ByStatus[c.ComputedStatus]++
		if c.CreatedAt.After(recentCutoff) {
			s.RecentlyAdded++
		}
		if c.ContractValue.Valid {
			s.TotalValue += c.ContractValue.Float64
		}
	}
	return s
}

// Notifications computes unread/starred counts and per-priority and
// per-type breakdowns. Archived notifications count toward the total
// but not toward unread.
func Notifications(records []models.Notification) models.NotificationStats {
	s := models.NotificationStats{
		ByPriority: make(map[string]int),
		ByType:     make(map[string]int),
	}

	for _, n := range records {
		s.Total++
		s.ByPriority[n.Priority]++
		s.ByType[n.Type]++
		if n.IsStarred {
			s.Starred++
		}
		if !n.IsRead && !n.IsArchived {
			s.Unread++
		}
	}
	return s
}

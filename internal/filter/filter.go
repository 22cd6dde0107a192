// Package filter implements the dashboard's client-driven filter, search,
// sort, and pagination pipeline as pure transforms over record slices.
// Filter state is an immutable value built from query parameters; applying
// it never mutates the input slice.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/contracthub/cms-backend/internal/models"
)

// Selection is a single-choice filter value. The dashboard sends "all"
// (or omits the parameter) to disable a filter, so that sentinel is
// folded into the type instead of being compared against inline.
type Selection string

// SelectAll matches every record
const SelectAll Selection = "all"

// IsAll reports whether the selection is a no-op
func (s Selection) IsAll() bool {
	return s == "" || s == SelectAll
}

// Matches reports whether a record value passes the selection
func (s Selection) Matches(value string) bool {
	return s.IsAll() || string(s) == value
}

// Contract-presence selections
const (
	WithContracts    Selection = "with-contracts"
	WithoutContracts Selection = "without-contracts"
)

// SortKey orders a filtered collection
type SortKey string

// Supported sort keys. An empty key preserves input order.
const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortPriority SortKey = "priority"
	SortType     SortKey = "type"
)

// State holds one snapshot of the dashboard's filter controls. All
// predicates are AND-ed; zero values disable the corresponding filter.
type State struct {
	Search           string
	Status           Selection
	DocumentStatus   Selection
	ContractPresence Selection
	Priority         Selection
	DateFrom         *time.Time
	DateTo           *time.Time
	Sort             SortKey
}

// matchesSearch does a case-insensitive substring match over the given
// fields. An empty query matches everything.
func matchesSearch(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func matchesDateRange(created time.Time, from, to *time.Time) bool {
	if from != nil && created.Before(*from) {
		return false
	}
	if to != nil && created.After(*to) {
		return false
	}
	return true
}

func matchesPresence(sel Selection, activeContracts int) bool {
	switch sel {
	case WithContracts:
		return activeContracts > 0
	case WithoutContracts:
		return activeContracts == 0
	default:
		return sel.IsAll()
	}
}

// Promoters applies the filter state to an annotated promoter slice.
// Relative order is preserved unless a sort key is set.
func Promoters(records []models.Promoter, st State) []models.Promoter {
	out := make([]models.Promoter, 0, len(records))
	for _, p := range records {
		if !matchesSearch(st.Search,
			p.NameEn.String, p.NameAr.String,
			p.IDCardNumber.String, p.PassportNumber.String,
			p.Email.String, p.Phone.String,
		) {
			continue
		}
		if !st.Status.Matches(p.OverallStatus) {
			continue
		}
		if !st.DocumentStatus.Matches(p.DocumentStatus) {
			continue
		}
		if !matchesPresence(st.ContractPresence, p.ActiveContractsCount) {
			continue
		}
		if !matchesDateRange(p.CreatedAt, st.DateFrom, st.DateTo) {
			continue
		}
		out = append(out, p)
	}

	switch st.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	return out
}

// Contracts applies the filter state to a contract slice with computed
// statuses. The status selection matches the computed status so that
// derived lifecycles filter the same way stored ones do.
func Contracts(records []models.Contract, st State) []models.Contract {
	out := make([]models.Contract, 0, len(records))
	for _, c := range records {
		if !matchesSearch(st.Search,
			c.ContractNumber,
			c.FirstPartyNameEn.String, c.SecondPartyNameEn.String,
			c.PromoterNameEn.String, c.JobTitle.String,
		) {
			continue
		}
		if !st.Status.Matches(c.ComputedStatus) {
			continue
		}
		if !matchesDateRange(c.CreatedAt, st.DateFrom, st.DateTo) {
			continue
		}
		out = append(out, c)
	}

	switch st.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	return out
}

// Parties applies the filter state to an annotated party slice. The
// status selection matches the stored status; document status matches
// the derived classification.
func Parties(records []models.Party, st State) []models.Party {
	out := make([]models.Party, 0, len(records))
	for _, p := range records {
		if !matchesSearch(st.Search,
			p.NameEn.String, p.NameAr.String, p.CRN.String,
			p.ContactEmail.String, p.ContactPhone.String,
		) {
			continue
		}
		if !st.Status.Matches(p.Status) {
			continue
		}
		if !st.DocumentStatus.Matches(p.DocumentStatus) {
			continue
		}
		if !matchesDateRange(p.CreatedAt, st.DateFrom, st.DateTo) {
			continue
		}
		out = append(out, p)
	}

	switch st.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	return out
}

// Notifications applies the filter state to a notification slice. The
// status selection matches the notification type; priority has its own
// selection. Archived records are excluded unless explicitly requested
// via Status "archived".
func Notifications(records []models.Notification, st State) []models.Notification {
	wantArchived := st.Status == "archived"

	out := make([]models.Notification, 0, len(records))
	for _, n := range records {
		if n.IsArchived != wantArchived {
			continue
		}
		if !matchesSearch(st.Search, n.Title, n.Message) {
			continue
		}
		if !wantArchived && !st.Status.Matches(n.Type) {
			continue
		}
		if !st.Priority.Matches(n.Priority) {
			continue
		}
		if !matchesDateRange(n.CreatedAt, st.DateFrom, st.DateTo) {
			continue
		}
		out = append(out, n)
	}

	switch st.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return models.PriorityRank(out[i].Priority) > models.PriorityRank(out[j].Priority)
		})
	case SortType:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	}
	return out
}

// Paginate slices a filtered collection into one page. Pages are
// 1-based; out-of-range pages yield an empty slice, and a non-positive
// size returns the whole input.
func Paginate[T any](records []T, page, size int) []T {
	if size <= 0 {
		return records
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []T{}
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

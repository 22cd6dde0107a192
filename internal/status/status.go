// Package status provides pure classification functions for promoter
// documents and contract lifecycles. These functions have no dependencies
// on HTTP, database, or any other infrastructure. The evaluation time is
// always injected for testability; nothing here reads the wall clock.
package status

import (
	"fmt"
	"math"
	"time"
)

// ExpiryWindowDays is the look-ahead window for "expiring" documents
// and "soon-to-expire" contracts.
const ExpiryWindowDays = 30

// Document statuses
const (
	DocumentValid    = "valid"
	DocumentExpiring = "expiring"
	DocumentExpired  = "expired"
)

// Overall promoter statuses, ordered by severity
const (
	OverallCritical = "critical"
	OverallWarning  = "warning"
	OverallActive   = "active"
	OverallInactive = "inactive"
)

// Contract lifecycle statuses
const (
	ContractExpired      = "expired"
	ContractSoonToExpire = "soon-to-expire"
	ContractActive       = "active"
	ContractGenerated    = "generated"
	ContractDraft        = "draft"
)

// ClassifyDocuments derives the document status from a set of optional
// expiry dates. Nil dates carry no constraint; a record with no dated
// documents is valid. Any expired date dominates any expiring one.
func ClassifyDocuments(now time.Time, expiryDates ...*time.Time) string {
	windowEnd := now.AddDate(0, 0, ExpiryWindowDays)

	expiring := false
	for _, d := range expiryDates {
		if d == nil {
			continue
		}
		if d.Before(now) {
			return DocumentExpired
		}
		if d.Before(windowEnd) {
			expiring = true
		}
	}
	if expiring {
		return DocumentExpiring
	}
	return DocumentValid
}

// ClassifyOverall combines document status and active contract count
// into a single activity/risk status. The precedence is fixed and
// short-circuiting: document expiry always dominates contract activity.
func ClassifyOverall(documentStatus string, activeContracts int) string {
	switch {
	case documentStatus == DocumentExpired:
		return OverallCritical
	case documentStatus == DocumentExpiring:
		return OverallWarning
	case activeContracts > 0:
		return OverallActive
	default:
		return OverallInactive
	}
}

// DeriveContract returns the lifecycle status of a contract. A non-empty
// stored status is always authoritative. Otherwise the status is derived
// from the date range: expired and soon-to-expire are checked before
// active, so a contract inside its active window but within the expiry
// look-ahead is labeled soon-to-expire. When no dates are set the
// derivation falls through to generated (a PDF exists) or draft.
func DeriveContract(stored string, start, end *time.Time, hasPDF bool, now time.Time) string {
	if stored != "" {
		return stored
	}

	if end != nil {
		if end.Before(now) {
			return ContractExpired
		}
		if days := DaysUntil(*end, now); days > 0 && days <= ExpiryWindowDays {
			return ContractSoonToExpire
		}
	}

	if start != nil && end != nil && !now.Before(*start) && now.Before(*end) {
		return ContractActive
	}

	if hasPDF {
		return ContractGenerated
	}
	return ContractDraft
}

// DaysUntil returns the number of whole days from now until date,
// comparing at day granularity. Positive means the date is in the
// future, negative means it is overdue.
func DaysUntil(date, now time.Time) int {
	return int(truncateToDay(date).Sub(truncateToDay(now)).Hours() / 24)
}

// DurationLabel renders the span between two contract dates for display:
// under 30 days in days, under a year in whole months (rounded), else
// in whole years (rounded). Either date missing yields an empty label.
func DurationLabel(start, end *time.Time) string {
	if start == nil || end == nil {
		return ""
	}

	days := int(truncateToDay(*end).Sub(truncateToDay(*start)).Hours() / 24)
	if days < 0 {
		return ""
	}

	switch {
	case days < 30:
		return pluralize(days, "day")
	case days < 365:
		months := int(math.Round(float64(days) / 30.0))
		return pluralize(months, "month")
	default:
		years := int(math.Round(float64(days) / 365.0))
		return pluralize(years, "year")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// truncateToDay strips the time component, keeping only the date.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

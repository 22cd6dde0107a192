package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contracthub/cms-backend/internal/filter"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// filterState builds a filter state from list query parameters. Missing
// parameters leave the corresponding filter disabled.
func filterState(c *gin.Context) filter.State {
	st := filter.State{
		Search:           c.Query("search"),
		Status:           filter.Selection(c.Query("status")),
		DocumentStatus:   filter.Selection(c.Query("document_status")),
		ContractPresence: filter.Selection(c.Query("contract_status")),
		Priority:         filter.Selection(c.Query("priority")),
		Sort:             filter.SortKey(c.Query("sort")),
	}

	if from, ok := parseDate(c.Query("date_from")); ok {
		st.DateFrom = &from
	}
	if to, ok := parseDate(c.Query("date_to")); ok {
		// The upper bound is inclusive of the whole day.
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		st.DateTo = &to
	}

	return st
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// pagination reads page and page_size query parameters with bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = parseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	pageSize = parseIntDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// countCSVRows counts data rows in a rendered CSV, excluding the header
func countCSVRows(csv string) int {
	lines := strings.Count(csv, "\n")
	if lines <= 1 {
		return 0
	}
	return lines - 1
}

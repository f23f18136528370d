package service

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by scheduled dates and the
// date-ish filter parameters.
const DateLayout = "2006-01-02"

// Filters holds the optional query filters for listing payments. The zero
// value of a field means the filter was not provided; callers pass query
// parameters through verbatim, so an empty string and a missing parameter
// are the same thing.
type Filters struct {
	Recipient string
	After     string
	Before    string
	Date      string
}

// FilterError describes an illegal filter combination or format. It carries
// the HTTP status and the human message the response body must contain.
type FilterError struct {
	Status  int
	Message string
}

func (e *FilterError) Error() string {
	return e.Message
}

func invalidFilters(message string) *FilterError {
	return &FilterError{Status: 400, Message: message}
}

// ValidateFilters checks filter-combination legality before any data access.
// Rules are checked in order and the first failing rule wins:
//
//  1. after and before are mutually exclusive
//  2. date cannot be combined with after or before
//  3. date, when present, must be a valid calendar date
//  4. recipient, when present, must be non-empty after trimming
//
// A nil return means the filters are legal. after and before deliberately
// bypass format validation; an unparseable value degrades to a no-op filter
// downstream.
func ValidateFilters(f Filters) *FilterError {
	if f.Before != "" && f.After != "" {
		return invalidFilters("before and after cannot be used together")
	}

	if f.Date != "" && (f.Before != "" || f.After != "") {
		return invalidFilters("date and before/after cannot be used together")
	}

	if f.Date != "" {
		if _, err := time.Parse(DateLayout, f.Date); err != nil {
			return invalidFilters("date is invalid")
		}
	}

	if f.Recipient != "" && strings.TrimSpace(f.Recipient) == "" {
		return invalidFilters("recipient must be a string and not empty.")
	}

	return nil
}

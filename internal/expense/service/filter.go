package service

import (
	"time"

	"github.com/expensio/backend/internal/expense/domain"
	"github.com/expensio/backend/internal/expense/repository"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

// Filter is the validated list request as it arrives from the HTTP
// layer. Zero values mean "absent": empty Period, nil dates, zero
// Page/Limit, empty sort fields.
type Filter struct {
	Period    domain.Period
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
	SortBy    domain.SortField
	SortOrder domain.SortOrder
}

const (
	filterKindRange  = "range"
	filterKindPeriod = "period"
	filterKindNone   = "none"
)

// resolve turns a Filter into a concrete repository query. An explicit
// start+end range wins over Period; Period alone sets only the lower
// bound; neither leaves dates unbounded. The default order is date
// descending; id ascending breaks ties either way so pagination stays
// stable across identical calls.
func resolve(ownerID userdomain.ID, f Filter, now time.Time) (repository.Query, string) {
	q := repository.Query{
		OwnerID: ownerID,
		SortBy:  domain.SortByDate,
		Order:   domain.SortDesc,
	}

	kind := filterKindNone
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		q.From = f.StartDate
		q.To = f.EndDate
		kind = filterKindRange
	case f.Period != "":
		if bound, ok := f.Period.LowerBound(now); ok {
			from := truncateToDate(bound)
			q.From = &from
			kind = filterKindPeriod
		}
	}

	if f.SortBy != "" {
		q.SortBy = f.SortBy
	}
	if f.SortOrder != "" {
		q.Order = f.SortOrder
	}

	if f.Page >= 1 && f.Limit >= 1 {
		q.Limit = f.Limit
		q.Offset = (f.Page - 1) * f.Limit
	}

	return q, kind
}

// truncateToDate drops the time component; expense dates are calendar
// dates and comparisons are date-granular.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

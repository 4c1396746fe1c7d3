package domain

import (
	"time"

	userdomain "github.com/expensio/backend/internal/user/domain"
)

type ID string

// Category is the closed set of expense categories. The HTTP layer
// validates membership on the way in; the service re-checks before
// persisting.
type Category string

const (
	CategoryGroceries   Category = "Groceries"
	CategoryLeisure     Category = "Leisure"
	CategoryElectronics Category = "Electronics"
	CategoryUtilities   Category = "Utilities"
	CategoryClothing    Category = "Clothing"
	CategoryHealth      Category = "Health"
	CategoryOthers      Category = "Others"
)

var categories = map[Category]struct{}{
	CategoryGroceries:   {},
	CategoryLeisure:     {},
	CategoryElectronics: {},
	CategoryUtilities:   {},
	CategoryClothing:    {},
	CategoryHealth:      {},
	CategoryOthers:      {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Expense is a single spend record. OwnerID is set once at creation from
// the authenticated identity and establishes exclusive ownership: every
// read and mutation is scoped to it. Amount is stored in cents to keep
// two-place decimal semantics exact. Date carries no time component.
type Expense struct {
	ID          ID
	OwnerID     userdomain.ID
	AmountCents int64
	Category    Category
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// Period is a named relative time window resolved to a concrete lower
// date bound at query time.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
)

// LowerBound computes the inclusive start of the window relative to now.
// Month-based periods move by calendar months, not fixed day counts.
func (p Period) LowerBound(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodThreeMonths:
		return now.AddDate(0, -3, 0), true
	default:
		return time.Time{}, false
	}
}

type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

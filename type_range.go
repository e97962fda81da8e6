package reserve

import (
	"fmt"
	"time"
)

// Range represents an inclusive range of dates.
//
// A zero From or To leaves that side of the range open, so the zero Range
// contains every date.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// IsOpen reports whether the range does not restrict any date.
func (r Range) IsOpen() bool { return r.From.IsZero() && r.To.IsZero() }

// Period returns the period of this range if it's a standard one.
func (r Range) Period() (p Period, ok bool) {
	if r.From.IsZero() || r.To.IsZero() {
		return Daily, false
	}
	switch {
	case r.From == r.To:
		return Daily, true
	case r.From.Weekday() == time.Monday && r.From.EndOf(Weekly) == r.To:
		return Weekly, true
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return Monthly, true
	case r.From.StartOf(Quarterly) == r.From && r.From.EndOf(Quarterly) == r.To:
		return Quarterly, true
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return Yearly, true
	default:
		return Daily, false
	}
}

// String describes the range for report titles. Standard periods use their
// short identifier.
func (r Range) String() string {
	if _, ok := r.Period(); ok {
		return r.Identifier()
	}
	switch {
	case r.IsOpen():
		return "all dates"
	case r.From.IsZero():
		return fmt.Sprintf("up to %s", r.To)
	case r.To.IsZero():
		return fmt.Sprintf("from %s", r.From)
	default:
		return fmt.Sprintf("%s to %s", r.From, r.To)
	}
}

// Identifier compute a unique identifier for the Range.
// If the period is defined, use a short insighful name
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}

	switch p {
	case Daily:
		return r.From.String()
	case Weekly:
		_, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", r.From.Year(), week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		panic("unknown period")
	}
}

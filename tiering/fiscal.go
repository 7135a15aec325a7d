package tiering

import (
	"fmt"
	"time"
)

// =============================================================================
// FISCAL YEAR - The bucketing window for revenue aggregation
// =============================================================================

// FiscalYear is the window a calendar date falls into, given a
// configurable start month.
//
// Examples (start month April):
//   - 2025-03-15 -> FY 2024-25 [2024-04-01, 2025-03-31 23:59:59.999]
//   - 2025-04-01 -> FY 2025-26 [2025-04-01, ...]
type FiscalYear struct {
	Label string
	Start time.Time // inclusive
	// End is the last displayed instant of the year, at millisecond
	// precision. Containment checks use the next year's start, not
	// End, so sub-millisecond instants cannot fall between years.
	End time.Time
}

// Contains returns true if t is within [Start, next year's start).
func (fy FiscalYear) Contains(t time.Time) bool {
	return !t.Before(fy.Start) && t.Before(fy.Start.AddDate(1, 0, 0))
}

func (fy FiscalYear) String() string {
	return fy.Label + " [" + fy.Start.Format("2006-01-02") + ", " + fy.End.Format("2006-01-02") + "]"
}

// =============================================================================
// CALENDAR - Maps dates to fiscal years
// =============================================================================

// Calendar maps any date to its fiscal-year window. Pure and total
// over any valid time; consecutive fiscal years are contiguous and
// non-overlapping.
type Calendar struct {
	// StartMonth is the month the fiscal year begins on (day 1).
	// The agency operates on an April start.
	StartMonth time.Month
}

// DefaultCalendar is the agency's fiscal calendar (April start).
var DefaultCalendar = Calendar{StartMonth: time.April}

// YearFor returns the fiscal year containing the given date.
// A date before this calendar year's start month belongs to the
// fiscal year that began the previous calendar year.
func (c Calendar) YearFor(date time.Time) FiscalYear {
	startYear := date.Year()
	if date.Month() < c.StartMonth {
		startYear--
	}

	start := time.Date(startYear, c.StartMonth, 1, 0, 0, 0, 0, date.Location())
	// Last instant of the day before next fiscal year, at millisecond
	// precision to match what consumers display.
	end := start.AddDate(1, 0, 0).Add(-time.Millisecond)

	return FiscalYear{
		Label: c.label(startYear),
		Start: start,
		End:   end,
	}
}

// Current returns the fiscal year containing now.
func (c Calendar) Current(now time.Time) FiscalYear {
	return c.YearFor(now)
}

// label formats "FY 2025-26" for a fiscal year starting in 2025.
func (c Calendar) label(startYear int) string {
	return fmt.Sprintf("FY %d-%02d", startYear, (startYear+1)%100)
}

package tiering

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REVENUE AGGREGATOR - Folds contributions into per-fiscal-year totals
// =============================================================================

// Aggregator buckets project contributions into fiscal-year revenue
// totals. Only completed projects contribute; everything else has
// zero revenue effect (not a negative or pending one).
type Aggregator struct {
	Calendar Calendar
}

// ByFiscalYear folds contributions into one LedgerEntry per distinct
// fiscal year touched by at least one completed contribution.
//
// Sums are commutative, so iteration order never affects the result.
// A completed contribution with a zero budget still creates its
// fiscal-year key with amount 0: the year was touched even though the
// amount is invisible downstream.
func (a Aggregator) ByFiscalYear(contributions []ProjectContribution) map[string]LedgerEntry {
	ledger := make(map[string]LedgerEntry)

	for _, c := range contributions {
		if !c.Completed() {
			continue
		}

		fy := a.Calendar.YearFor(c.ReferenceDate)
		entry, ok := ledger[fy.Label]
		if !ok {
			entry = LedgerEntry{
				FiscalYearLabel: fy.Label,
				Amount:          decimal.Zero,
				PeriodStart:     fy.Start,
			}
		}
		entry.Amount = entry.Amount.Add(c.Budget)
		ledger[fy.Label] = entry
	}

	return ledger
}

// SortedLedger flattens a per-year mapping into a slice sorted by
// period start, most recent fiscal year first. This is the
// presentation ordering; the mapping itself is unordered.
func SortedLedger(byYear map[string]LedgerEntry) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(byYear))
	for _, e := range byYear {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PeriodStart.After(entries[j].PeriodStart)
	})
	return entries
}

package tiering

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE - Per-partner evaluation facade
// =============================================================================

// Engine composes the aggregator and the ladder into the result the
// portal consumes: a fiscal-year revenue ledger plus the tier
// evaluation for one selected year.
//
// The engine is stateless. Repeated calls with identical inputs
// produce identical output, nothing is mutated, and it may be invoked
// concurrently without coordination (several partner cards render at
// once).
type Engine struct {
	Calendar Calendar
	Ladder   Ladder
}

// Evaluate aggregates the contributions and resolves the tier for the
// target fiscal year.
//
// Year selection: targetLabel when it names a year present in the
// ledger, otherwise the fiscal year containing asOf. A partner with
// no completed, budget-bearing projects in the evaluated year has
// zero revenue and resolves to the floor tier; an unknown requested
// label is not an error.
func (e Engine) Evaluate(contributions []ProjectContribution, targetLabel string, asOf time.Time) Evaluation {
	byYear := Aggregator{Calendar: e.Calendar}.ByFiscalYear(contributions)
	ledger := SortedLedger(byYear)

	fy := e.Calendar.Current(asOf)
	if targetLabel != "" {
		if _, ok := byYear[targetLabel]; ok {
			fy = e.fiscalYearByLabel(ledger, targetLabel)
		}
	}

	revenue := decimal.Zero
	if entry, ok := byYear[fy.Label]; ok {
		revenue = entry.Amount
	}

	return Evaluation{
		Ledger:     ledger,
		FiscalYear: fy,
		Revenue:    revenue,
		Tier:       e.Ladder.Resolve(revenue),
	}
}

// fiscalYearByLabel reconstructs the full window for a label known to
// be in the ledger (the entry only carries the period start).
func (e Engine) fiscalYearByLabel(ledger []LedgerEntry, label string) FiscalYear {
	for _, entry := range ledger {
		if entry.FiscalYearLabel == label {
			return e.Calendar.YearFor(entry.PeriodStart)
		}
	}
	// Unreachable when the caller checked membership first.
	return FiscalYear{Label: label}
}

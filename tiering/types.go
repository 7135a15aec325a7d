/*
Package tiering provides the partner revenue and tier engine.

PURPOSE:
  This package contains the pure computational core behind partner
  rewards: bucketing completed-project budgets into fiscal-year
  windows, and mapping cumulative revenue to a reward tier with
  progress toward the next one. The same engine backs the partner
  list, the awards page, and the dashboard summary cards.

KEY CONCEPTS IN THIS FILE (types.go):
  - ProjectContribution: A single project's potential revenue input
  - RevenueTier: One rung of the reward ladder (name + threshold)
  - LedgerEntry: Accumulated revenue for one fiscal year
  - TierEvaluation: Resolved tier, next tier, progress

DESIGN PRINCIPLES:
  1. Purity: Every entry point is a function of its inputs. No I/O,
     no shared state, safe for concurrent callers.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
     on money amounts.
  3. Fail fast: Ladder misconfiguration is rejected at construction,
     never discovered at query time.

USAGE:
  cal := tiering.Calendar{StartMonth: time.April}
  ladder, err := tiering.NewLadder(tiers)
  engine := tiering.Engine{Calendar: cal, Ladder: ladder}
  result := engine.Evaluate(contributions, "", time.Now())

SEE ALSO:
  - fiscal.go: Fiscal-year calendar
  - aggregate.go: Revenue aggregation by fiscal year
  - ladder.go: Tier ladder and resolution
  - facade.go: Engine composing the above
*/
package tiering

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROJECT CONTRIBUTION - Revenue input from a single project
// =============================================================================

// ProjectStatus is the pipeline state of a project. Only completed
// projects contribute revenue.
type ProjectStatus string

const (
	StatusLead       ProjectStatus = "lead"
	StatusProposal   ProjectStatus = "proposal"
	StatusInProgress ProjectStatus = "in_progress"
	StatusOnHold     ProjectStatus = "on_hold"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// ProjectContribution is a transient input record: one project's
// status, budget, and reference date. It is never persisted by this
// package; callers materialize it from the project/assignment store.
//
// PRECONDITION: ReferenceDate must be set. Callers derive it from the
// project's last-updated timestamp, falling back to the creation
// timestamp. A missing reference date is a caller bug, not something
// the engine defaults (defaulting to "now" would skew fiscal-year
// attribution).
type ProjectContribution struct {
	Status        ProjectStatus
	Budget        decimal.Decimal // absent budgets are coerced to zero at the boundary
	ReferenceDate time.Time
}

// Completed reports whether this contribution carries revenue.
func (c ProjectContribution) Completed() bool {
	return c.Status == StatusCompleted
}

// =============================================================================
// REVENUE TIER - One rung of the reward ladder
// =============================================================================

// RevenueTier is static configuration: a named reward level with an
// inclusive revenue floor. The ladder is sorted descending by
// MinRevenue with exactly one zero-floor tier (the default level).
type RevenueTier struct {
	Name        string
	MinRevenue  decimal.Decimal
	Description string
	Rewards     string
}

// =============================================================================
// DERIVED RESULTS
// =============================================================================

// LedgerEntry is the accumulated completed-project revenue for one
// fiscal year. Recomputed on every query; never cached or persisted.
type LedgerEntry struct {
	FiscalYearLabel string
	Amount          decimal.Decimal
	PeriodStart     time.Time // sort key only, newest first
}

// TierEvaluation is the resolved reward level for a revenue amount.
// NextTier is nil when the top tier is reached. ProgressToNext is in
// [0, 1] and is 1 at the top tier.
type TierEvaluation struct {
	Tier           RevenueTier
	NextTier       *RevenueTier
	ProgressToNext decimal.Decimal
}

// Evaluation is the full result produced per partner per queried
// fiscal year: the revenue ledger (newest fiscal year first), the
// fiscal year that was evaluated, its revenue, and the tier outcome.
type Evaluation struct {
	Ledger     []LedgerEntry
	FiscalYear FiscalYear
	Revenue    decimal.Decimal
	Tier       TierEvaluation
}

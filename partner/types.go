/*
Package partner provides the agency domain layer on top of the tier
engine.

PURPOSE:
  Holds the portal's partner, project, and assignment records, the
  boundary that turns raw project rows into engine contributions, and
  the service that answers the questions the dashboards ask: what tier
  is this partner on, what does the awards board look like, what are
  the summary numbers.

KEY CONCEPTS:
  - Partner: An agency partner enrolled in the rewards program
  - Project: A client project in the delivery pipeline
  - Assignment: Links a partner to a project (a partner owns zero or
    more contributions via assignments)
  - Service: Composes the stores with tiering.Engine

SEE ALSO:
  - contribution.go: Boundary coercion into tiering.ProjectContribution
  - service.go: Evaluation service
  - store.go: Persistence interfaces
*/
package partner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/tiering"
)

// =============================================================================
// DOMAIN RECORDS
// =============================================================================

// Partner is an agency partner enrolled in the rewards program.
type Partner struct {
	ID       string
	Name     string
	Email    string
	Company  string
	JoinedAt time.Time
}

// Project is a client project in the delivery pipeline. Budget is
// nullable: projects enter the pipeline before a budget is agreed.
type Project struct {
	ID        string
	Name      string
	Status    tiering.ProjectStatus
	Budget    *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time // zero until the project is first modified
}

// Assignment links a partner to a project.
type Assignment struct {
	ID         string
	PartnerID  string
	ProjectID  string
	Role       string // e.g. "referrer", "delivery", "account"
	AssignedAt time.Time
}

// =============================================================================
// EVALUATION RESULTS
// =============================================================================

// PartnerEvaluation pairs a partner with their engine result.
type PartnerEvaluation struct {
	Partner    Partner
	Evaluation tiering.Evaluation
}

// AwardsBoard is every partner evaluated against one fiscal year,
// sorted by revenue descending (the awards page ranking).
type AwardsBoard struct {
	FiscalYear tiering.FiscalYear
	Entries    []PartnerEvaluation
}

// DashboardSummary is the aggregate card data for the admin dashboard.
type DashboardSummary struct {
	FiscalYear       tiering.FiscalYear
	PartnerCount     int
	ProjectCount     int
	CompletedRevenue decimal.Decimal // current-FY completed revenue across all partners
	TierCounts       map[string]int  // tier name -> number of partners
}

package partner

import (
	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/tiering"
)

// Contribution coerces a project row into an engine contribution.
// This is the single place external data is validated into the
// engine's explicit record: a missing budget becomes zero, and the
// reference date prefers the last-updated timestamp over creation.
//
// The timestamp preference matters: a project created in March but
// completed in April buckets into the new fiscal year, because
// completion touches UpdatedAt. Projects that were never modified
// fall back to CreatedAt.
func Contribution(p Project) tiering.ProjectContribution {
	budget := decimal.Zero
	if p.Budget != nil {
		budget = *p.Budget
	}

	ref := p.UpdatedAt
	if ref.IsZero() {
		ref = p.CreatedAt
	}

	return tiering.ProjectContribution{
		Status:        p.Status,
		Budget:        budget,
		ReferenceDate: ref,
	}
}

// Contributions maps a project list into engine contributions.
func Contributions(projects []Project) []tiering.ProjectContribution {
	out := make([]tiering.ProjectContribution, len(projects))
	for i, p := range projects {
		out[i] = Contribution(p)
	}
	return out
}

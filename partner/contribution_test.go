package partner_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/partner"
	"github.com/meridianhq/agency-engine/tiering"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func decPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestContribution_PrefersUpdatedAt(t *testing.T) {
	// GIVEN: A project created in March, completed (updated) in April
	// WHEN: Mapping to a contribution
	// THEN: The reference date is the update; the project buckets into
	//       the fiscal year it was completed in, not created in.

	c := partner.Contribution(partner.Project{
		ID:        "prj-1",
		Status:    tiering.StatusCompleted,
		Budget:    decPtr(30000),
		CreatedAt: date(2025, time.March, 10),
		UpdatedAt: date(2025, time.April, 20),
	})

	if !c.ReferenceDate.Equal(date(2025, time.April, 20)) {
		t.Errorf("expected reference 2025-04-20, got %v", c.ReferenceDate)
	}
}

func TestContribution_FallsBackToCreatedAt(t *testing.T) {
	c := partner.Contribution(partner.Project{
		ID:        "prj-1",
		Status:    tiering.StatusCompleted,
		Budget:    decPtr(30000),
		CreatedAt: date(2025, time.March, 10),
	})

	if !c.ReferenceDate.Equal(date(2025, time.March, 10)) {
		t.Errorf("expected reference 2025-03-10, got %v", c.ReferenceDate)
	}
}

func TestContribution_NilBudgetIsZero(t *testing.T) {
	c := partner.Contribution(partner.Project{
		ID:        "prj-1",
		Status:    tiering.StatusCompleted,
		CreatedAt: date(2025, time.March, 10),
	})

	if !c.Budget.IsZero() {
		t.Errorf("expected zero budget, got %v", c.Budget)
	}
}

func TestContribution_TimestampChoiceMovesFiscalYear(t *testing.T) {
	// The same project attributes to different fiscal years depending
	// on whether UpdatedAt is present.

	cal := tiering.Calendar{StartMonth: time.April}

	created := partner.Project{
		ID:        "prj-1",
		Status:    tiering.StatusCompleted,
		Budget:    decPtr(10000),
		CreatedAt: date(2025, time.March, 10),
	}
	updated := created
	updated.UpdatedAt = date(2025, time.April, 2)

	fyCreated := cal.YearFor(partner.Contribution(created).ReferenceDate)
	fyUpdated := cal.YearFor(partner.Contribution(updated).ReferenceDate)

	if fyCreated.Label != "FY 2024-25" {
		t.Errorf("created-only: expected FY 2024-25, got %s", fyCreated.Label)
	}
	if fyUpdated.Label != "FY 2025-26" {
		t.Errorf("updated: expected FY 2025-26, got %s", fyUpdated.Label)
	}
}

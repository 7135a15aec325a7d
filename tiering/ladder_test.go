package tiering_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/tiering"
)

// agencyTiers is the production reward ladder, highest first.
func agencyTiers() []tiering.RevenueTier {
	return []tiering.RevenueTier{
		{Name: "Black", MinRevenue: money(500000)},
		{Name: "Diamond", MinRevenue: money(250000)},
		{Name: "Gold", MinRevenue: money(100000)},
		{Name: "Silver", MinRevenue: money(50000)},
		{Name: "Bronze", MinRevenue: money(15000)},
		{Name: "Explorer", MinRevenue: money(0)},
	}
}

func mustLadder(t *testing.T) tiering.Ladder {
	t.Helper()
	l, err := tiering.NewLadder(agencyTiers())
	if err != nil {
		t.Fatalf("NewLadder failed: %v", err)
	}
	return l
}

func TestResolve_MidLadder(t *testing.T) {
	// GIVEN: Revenue of 110000 against the agency ladder
	// WHEN: Resolving
	// THEN: Gold, next Diamond, progress 110000/250000 = 0.44

	eval := mustLadder(t).Resolve(money(110000))

	if eval.Tier.Name != "Gold" {
		t.Errorf("expected Gold, got %s", eval.Tier.Name)
	}
	if eval.NextTier == nil || eval.NextTier.Name != "Diamond" {
		t.Errorf("expected next tier Diamond, got %v", eval.NextTier)
	}
	if !eval.ProgressToNext.Equal(decimal.NewFromFloat(0.44)) {
		t.Errorf("expected progress 0.44, got %v", eval.ProgressToNext)
	}
}

func TestResolve_ZeroRevenue(t *testing.T) {
	// Zero revenue lands on the floor tier with zero progress.

	eval := mustLadder(t).Resolve(money(0))

	if eval.Tier.Name != "Explorer" {
		t.Errorf("expected Explorer, got %s", eval.Tier.Name)
	}
	if eval.NextTier == nil || eval.NextTier.Name != "Bronze" {
		t.Errorf("expected next tier Bronze, got %v", eval.NextTier)
	}
	if !eval.ProgressToNext.IsZero() {
		t.Errorf("expected progress 0, got %v", eval.ProgressToNext)
	}
}

func TestResolve_TopTierTerminal(t *testing.T) {
	// At or above the highest threshold there is no next tier and
	// progress is pinned at 1.

	ladder := mustLadder(t)
	for _, revenue := range []int64{500000, 600000, 10_000_000} {
		eval := ladder.Resolve(money(revenue))
		if eval.Tier.Name != "Black" {
			t.Errorf("revenue %d: expected Black, got %s", revenue, eval.Tier.Name)
		}
		if eval.NextTier != nil {
			t.Errorf("revenue %d: expected no next tier, got %s", revenue, eval.NextTier.Name)
		}
		if !eval.ProgressToNext.Equal(decimal.NewFromInt(1)) {
			t.Errorf("revenue %d: expected progress 1, got %v", revenue, eval.ProgressToNext)
		}
	}
}

func TestResolve_ExactThreshold(t *testing.T) {
	// Thresholds are inclusive lower bounds.
	eval := mustLadder(t).Resolve(money(50000))
	if eval.Tier.Name != "Silver" {
		t.Errorf("expected Silver at exactly 50000, got %s", eval.Tier.Name)
	}
}

func TestResolve_MonotonicityProperty(t *testing.T) {
	// More revenue never resolves to a lower tier, and progress stays
	// within [0, 1].

	ladder := mustLadder(t)
	tierRank := make(map[string]int)
	for i, tier := range ladder.Tiers() {
		tierRank[tier.Name] = i
	}

	prevRank := ladder.Len() // below the bottom
	one := decimal.NewFromInt(1)

	for revenue := int64(0); revenue <= 700000; revenue += 2500 {
		eval := ladder.Resolve(money(revenue))

		rank := tierRank[eval.Tier.Name]
		if rank > prevRank {
			t.Fatalf("tier decreased at revenue %d: %s", revenue, eval.Tier.Name)
		}
		prevRank = rank

		if eval.ProgressToNext.IsNegative() || eval.ProgressToNext.GreaterThan(one) {
			t.Fatalf("progress out of [0,1] at revenue %d: %v", revenue, eval.ProgressToNext)
		}
	}
}

func TestResolve_ProgressJustBelowThreshold(t *testing.T) {
	// Progress approaches but never reaches 1 inside a band.
	ladder := tiering.MustLadder([]tiering.RevenueTier{
		{Name: "High", MinRevenue: money(100)},
		{Name: "Base", MinRevenue: money(0)},
	})

	eval := ladder.Resolve(money(99))
	if !eval.ProgressToNext.Equal(decimal.NewFromFloat(0.99)) {
		t.Errorf("expected progress 0.99, got %v", eval.ProgressToNext)
	}
}

// =============================================================================
// CONFIGURATION VALIDATION
// =============================================================================

func TestNewLadder_RejectsEmpty(t *testing.T) {
	_, err := tiering.NewLadder(nil)
	if !errors.Is(err, tiering.ErrEmptyLadder) {
		t.Errorf("expected ErrEmptyLadder, got %v", err)
	}
}

func TestNewLadder_RejectsMissingFloor(t *testing.T) {
	_, err := tiering.NewLadder([]tiering.RevenueTier{
		{Name: "Gold", MinRevenue: money(100000)},
		{Name: "Silver", MinRevenue: money(50000)},
	})
	if !errors.Is(err, tiering.ErrNoFloorTier) {
		t.Errorf("expected ErrNoFloorTier, got %v", err)
	}
}

func TestNewLadder_RejectsUnsorted(t *testing.T) {
	_, err := tiering.NewLadder([]tiering.RevenueTier{
		{Name: "Silver", MinRevenue: money(50000)},
		{Name: "Gold", MinRevenue: money(100000)},
		{Name: "Explorer", MinRevenue: money(0)},
	})
	if !errors.Is(err, tiering.ErrLadderNotSorted) {
		t.Errorf("expected ErrLadderNotSorted, got %v", err)
	}

	var lerr *tiering.LadderError
	if !errors.As(err, &lerr) {
		t.Fatal("expected LadderError with tier context")
	}
	if lerr.TierName != "Gold" {
		t.Errorf("expected offending tier Gold, got %s", lerr.TierName)
	}
}

func TestNewLadder_RejectsDuplicateFloors(t *testing.T) {
	// Two zero-floor tiers are not strictly descending.
	_, err := tiering.NewLadder([]tiering.RevenueTier{
		{Name: "Gold", MinRevenue: money(100000)},
		{Name: "Explorer", MinRevenue: money(0)},
		{Name: "Starter", MinRevenue: money(0)},
	})
	if !errors.Is(err, tiering.ErrLadderNotSorted) {
		t.Errorf("expected ErrLadderNotSorted, got %v", err)
	}
}

func TestNewLadder_RejectsNegativeThreshold(t *testing.T) {
	_, err := tiering.NewLadder([]tiering.RevenueTier{
		{Name: "Gold", MinRevenue: money(100000)},
		{Name: "Pit", MinRevenue: money(-5)},
	})
	if !errors.Is(err, tiering.ErrNegativeThreshold) {
		t.Errorf("expected ErrNegativeThreshold, got %v", err)
	}
}

func TestNewLadder_RejectsDuplicateNames(t *testing.T) {
	_, err := tiering.NewLadder([]tiering.RevenueTier{
		{Name: "Gold", MinRevenue: money(100000)},
		{Name: "Gold", MinRevenue: money(50000)},
		{Name: "Explorer", MinRevenue: money(0)},
	})
	if !errors.Is(err, tiering.ErrDuplicateTierName) {
		t.Errorf("expected ErrDuplicateTierName, got %v", err)
	}
}

func TestNewLadder_CopiesInput(t *testing.T) {
	// Mutating the source slice after construction must not affect a
	// validated ladder.
	tiers := agencyTiers()
	ladder, err := tiering.NewLadder(tiers)
	if err != nil {
		t.Fatalf("NewLadder failed: %v", err)
	}

	tiers[0].Name = "Mutated"
	if ladder.Tiers()[0].Name != "Black" {
		t.Error("ladder shares memory with caller slice")
	}
}

func TestIsConfigError(t *testing.T) {
	if !tiering.IsConfigError(tiering.ErrNoFloorTier) {
		t.Error("ErrNoFloorTier should be a config error")
	}
	if tiering.IsConfigError(errors.New("io failure")) {
		t.Error("arbitrary errors are not config errors")
	}
}

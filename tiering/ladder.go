package tiering

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TIER LADDER - Ordered reward thresholds
// =============================================================================

// Ladder is a validated tier ladder: sorted descending by MinRevenue,
// exactly one zero-floor tier at the bottom. Construct via NewLadder;
// the zero value is unusable and Resolve will panic on it, which is
// the intended misuse signal.
type Ladder struct {
	tiers []RevenueTier
}

// NewLadder validates and wraps a tier ladder. The tiers must be
// sorted strictly descending by MinRevenue and the last tier must
// have MinRevenue == 0. A malformed ladder is a configuration error:
// reject it here rather than mis-rank tiers at query time.
func NewLadder(tiers []RevenueTier) (Ladder, error) {
	if len(tiers) == 0 {
		return Ladder{}, ErrEmptyLadder
	}

	seen := make(map[string]bool, len(tiers))
	for i, t := range tiers {
		if t.MinRevenue.IsNegative() {
			return Ladder{}, &LadderError{TierName: t.Name, Index: i, Err: ErrNegativeThreshold}
		}
		if seen[t.Name] {
			return Ladder{}, &LadderError{TierName: t.Name, Index: i, Err: ErrDuplicateTierName}
		}
		seen[t.Name] = true

		if i > 0 && !tiers[i-1].MinRevenue.GreaterThan(t.MinRevenue) {
			return Ladder{}, &LadderError{TierName: t.Name, Index: i, Err: ErrLadderNotSorted}
		}
	}

	if !tiers[len(tiers)-1].MinRevenue.IsZero() {
		return Ladder{}, ErrNoFloorTier
	}

	// Defensive copy so callers can't mutate a validated ladder.
	owned := make([]RevenueTier, len(tiers))
	copy(owned, tiers)
	return Ladder{tiers: owned}, nil
}

// MustLadder is NewLadder for statically known configurations.
func MustLadder(tiers []RevenueTier) Ladder {
	l, err := NewLadder(tiers)
	if err != nil {
		panic(err)
	}
	return l
}

// Tiers returns the ladder contents, highest threshold first.
func (l Ladder) Tiers() []RevenueTier {
	out := make([]RevenueTier, len(l.tiers))
	copy(out, l.tiers)
	return out
}

// Len returns the number of tiers.
func (l Ladder) Len() int { return len(l.tiers) }

// Resolve maps a revenue amount to its tier evaluation.
//
// The scan walks the descending ladder and stops at the first tier
// whose floor is <= revenue. The zero-floor tier guarantees a match,
// so there is no "no tier" case. If a higher tier exists, progress is
// revenue / nextTier.MinRevenue, clamped to [0, 1]; the divisor is
// always positive because the only zero-floor tier is the bottom one
// and is never a "next" target. At the top tier, NextTier is nil and
// progress is 1.
func (l Ladder) Resolve(revenue decimal.Decimal) TierEvaluation {
	if len(l.tiers) == 0 {
		panic("tiering: Resolve on unvalidated zero-value Ladder")
	}

	index := len(l.tiers) - 1
	for i, t := range l.tiers {
		if !t.MinRevenue.GreaterThan(revenue) {
			index = i
			break
		}
	}

	if index == 0 {
		return TierEvaluation{
			Tier:           l.tiers[0],
			NextTier:       nil,
			ProgressToNext: decimal.NewFromInt(1),
		}
	}

	next := l.tiers[index-1]
	progress := revenue.Div(next.MinRevenue)
	one := decimal.NewFromInt(1)
	if progress.GreaterThan(one) {
		// Can happen transiently with non-monotonic reconfiguration;
		// never present more than 100%.
		progress = one
	}
	if progress.IsNegative() {
		progress = decimal.Zero
	}

	return TierEvaluation{
		Tier:           l.tiers[index],
		NextTier:       &next,
		ProgressToNext: progress,
	}
}

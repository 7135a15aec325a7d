/*
errors.go - Centralized error types for the tier engine

PURPOSE:
  The engine's error surface is narrow: everything it computes at
  query time has a well-defined result, so the only errors are ladder
  configuration errors raised at construction. Callers should treat
  them as fatal (reject the configuration, do not serve queries).

USAGE:
  ladder, err := tiering.NewLadder(tiers)
  if errors.Is(err, tiering.ErrNoFloorTier) {
      // configuration is missing the zero-revenue default tier
  }
*/
package tiering

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLadder is returned when constructing a ladder with no tiers.
	ErrEmptyLadder = errors.New("tier ladder is empty")

	// ErrNoFloorTier is returned when no tier has MinRevenue == 0.
	// Without a floor, low revenue amounts would resolve to no tier.
	ErrNoFloorTier = errors.New("tier ladder has no zero-revenue floor tier")

	// ErrLadderNotSorted is returned when tiers are not strictly
	// descending by MinRevenue.
	ErrLadderNotSorted = errors.New("tier ladder not sorted descending by min revenue")

	// ErrNegativeThreshold is returned when a tier has a negative floor.
	ErrNegativeThreshold = errors.New("tier has negative min revenue")

	// ErrDuplicateTierName is returned when two tiers share a name.
	ErrDuplicateTierName = errors.New("duplicate tier name")
)

// LadderError wraps a configuration error with the offending tier.
type LadderError struct {
	TierName string
	Index    int
	Err      error
}

func (e *LadderError) Error() string {
	return fmt.Sprintf("tier %q (index %d): %v", e.TierName, e.Index, e.Err)
}

func (e *LadderError) Unwrap() error { return e.Err }

// IsConfigError returns true if the error is a ladder configuration
// error (reject at startup rather than recover at query time).
func IsConfigError(err error) bool {
	return errors.Is(err, ErrEmptyLadder) ||
		errors.Is(err, ErrNoFloorTier) ||
		errors.Is(err, ErrLadderNotSorted) ||
		errors.Is(err, ErrNegativeThreshold) ||
		errors.Is(err, ErrDuplicateTierName)
}

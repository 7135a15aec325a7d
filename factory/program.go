/*
Package factory provides JSON to Go tier-program conversion.

PURPOSE:
  Converts JSON program definitions into a tiering.Calendar and a
  validated tiering.Ladder. This enables program configuration without
  code changes - operations can adjust tier thresholds or the fiscal
  calendar in JSON, and the factory creates the proper Go structs.

JSON SCHEMA:
  {
    "name": "Partner Rewards",
    "fiscal_year_start": 4,
    "tiers": [
      {"name": "Black", "min_revenue": 500000, "rewards": "..."},
      ...
      {"name": "Explorer", "min_revenue": 0}
    ]
  }

KEY FEATURES:
  - Validates JSON structure and the ladder invariants (descending
    thresholds, single zero floor) before anything serves queries
  - Sets sensible defaults (April fiscal start)
  - Ships the portal's production ladder as DefaultProgramJSON

USAGE:
  cal, ladder, err := factory.ParseProgram(jsonString)
  if err != nil {
      log.Fatalf("invalid tier program: %v", err)
  }
  engine := tiering.Engine{Calendar: cal, Ladder: ladder}

SEE ALSO:
  - tiering/ladder.go: Ladder invariants
  - cmd/server/main.go: Loads the program at startup
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/tiering"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProgramJSON is the JSON representation of a tier program.
type ProgramJSON struct {
	Name            string     `json:"name"`
	FiscalYearStart int        `json:"fiscal_year_start,omitempty"` // Month 1-12, default April
	Tiers           []TierJSON `json:"tiers"`
}

// TierJSON represents one tier of the ladder.
type TierJSON struct {
	Name        string  `json:"name"`
	MinRevenue  float64 `json:"min_revenue"`
	Description string  `json:"description,omitempty"`
	Rewards     string  `json:"rewards,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseProgram converts a JSON program into a calendar and a
// validated ladder. Any failure here is a configuration error: the
// caller should refuse to start rather than serve mis-ranked tiers.
func ParseProgram(jsonStr string) (tiering.Calendar, tiering.Ladder, error) {
	var pj ProgramJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return tiering.Calendar{}, tiering.Ladder{}, fmt.Errorf("invalid program JSON: %w", err)
	}
	return buildProgram(pj)
}

func buildProgram(pj ProgramJSON) (tiering.Calendar, tiering.Ladder, error) {
	start := time.April
	if pj.FiscalYearStart != 0 {
		if pj.FiscalYearStart < 1 || pj.FiscalYearStart > 12 {
			return tiering.Calendar{}, tiering.Ladder{},
				fmt.Errorf("fiscal_year_start must be 1-12, got %d", pj.FiscalYearStart)
		}
		start = time.Month(pj.FiscalYearStart)
	}
	cal := tiering.Calendar{StartMonth: start}

	tiers := make([]tiering.RevenueTier, len(pj.Tiers))
	for i, t := range pj.Tiers {
		tiers[i] = tiering.RevenueTier{
			Name:        t.Name,
			MinRevenue:  decimal.NewFromFloat(t.MinRevenue),
			Description: t.Description,
			Rewards:     t.Rewards,
		}
	}

	ladder, err := tiering.NewLadder(tiers)
	if err != nil {
		return tiering.Calendar{}, tiering.Ladder{}, fmt.Errorf("invalid tier ladder: %w", err)
	}

	return cal, ladder, nil
}

// =============================================================================
// DEFAULT PROGRAM
// =============================================================================

// DefaultProgramJSON is the portal's production reward ladder:
// fiscal year starting April, six tiers from Explorer to Black.
func DefaultProgramJSON() string {
	return `{
  "name": "Partner Rewards",
  "fiscal_year_start": 4,
  "tiers": [
    {"name": "Black", "min_revenue": 500000, "description": "Top-tier strategic partner", "rewards": "Dedicated account team, 15% referral commission, annual summit invite"},
    {"name": "Diamond", "min_revenue": 250000, "description": "Premier partner", "rewards": "Priority support, 12% referral commission"},
    {"name": "Gold", "min_revenue": 100000, "description": "Established partner", "rewards": "10% referral commission, co-marketing budget"},
    {"name": "Silver", "min_revenue": 50000, "description": "Growing partner", "rewards": "8% referral commission"},
    {"name": "Bronze", "min_revenue": 15000, "description": "Active partner", "rewards": "5% referral commission"},
    {"name": "Explorer", "min_revenue": 0, "description": "New partner", "rewards": "Partner portal access"}
  ]
}`
}

// DefaultProgram parses the built-in program. It panics on failure,
// which would mean the shipped default is broken.
func DefaultProgram() (tiering.Calendar, tiering.Ladder) {
	cal, ladder, err := ParseProgram(DefaultProgramJSON())
	if err != nil {
		panic(fmt.Sprintf("built-in tier program invalid: %v", err))
	}
	return cal, ladder
}

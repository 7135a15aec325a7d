package partner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/tiering"
)

// =============================================================================
// EVALUATION SERVICE
// =============================================================================

// Service answers tier and revenue questions by feeding stored
// project data through the engine. The service holds no evaluation
// state: every call re-derives from the current rows, so there is
// nothing to invalidate after a mutation.
type Service struct {
	Store  Store
	Engine tiering.Engine

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewService creates a service around a store and a validated engine.
func NewService(store Store, engine tiering.Engine) *Service {
	return &Service{Store: store, Engine: engine, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EvaluatePartner produces the fiscal-year ledger and tier evaluation
// for one partner. targetFiscalYear may be empty (current year) or a
// label like "FY 2025-26".
func (s *Service) EvaluatePartner(ctx context.Context, partnerID, targetFiscalYear string) (*PartnerEvaluation, error) {
	p, err := s.Store.GetPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("load partner %s: %w", partnerID, err)
	}
	if p == nil {
		return nil, ErrPartnerNotFound
	}

	projects, err := s.Store.ProjectsByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("load projects for partner %s: %w", partnerID, err)
	}

	eval := s.Engine.Evaluate(Contributions(projects), targetFiscalYear, s.now())
	return &PartnerEvaluation{Partner: *p, Evaluation: eval}, nil
}

// Awards evaluates every partner against one fiscal year and ranks
// them by revenue descending. Ties keep a stable name ordering so the
// board doesn't shuffle between renders.
func (s *Service) Awards(ctx context.Context, targetFiscalYear string) (*AwardsBoard, error) {
	partners, err := s.Store.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}

	now := s.now()
	board := &AwardsBoard{
		FiscalYear: s.Engine.Calendar.Current(now),
		Entries:    make([]PartnerEvaluation, 0, len(partners)),
	}

	for _, p := range partners {
		projects, err := s.Store.ProjectsByPartner(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("load projects for partner %s: %w", p.ID, err)
		}
		eval := s.Engine.Evaluate(Contributions(projects), targetFiscalYear, now)
		board.Entries = append(board.Entries, PartnerEvaluation{Partner: p, Evaluation: eval})
	}

	if targetFiscalYear != "" {
		// The board header shows the requested year. Partners without
		// revenue in it fall back to the current year individually, so
		// take the window from an entry that actually resolved the
		// requested label.
		for _, entry := range board.Entries {
			if entry.Evaluation.FiscalYear.Label == targetFiscalYear {
				board.FiscalYear = entry.Evaluation.FiscalYear
				break
			}
		}
	}

	sort.SliceStable(board.Entries, func(i, j int) bool {
		ri, rj := board.Entries[i].Evaluation.Revenue, board.Entries[j].Evaluation.Revenue
		if !ri.Equal(rj) {
			return ri.GreaterThan(rj)
		}
		return board.Entries[i].Partner.Name < board.Entries[j].Partner.Name
	})

	return board, nil
}

// Dashboard computes the admin summary cards: counts, current-FY
// completed revenue, and how partners distribute across tiers.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	board, err := s.Awards(ctx, "")
	if err != nil {
		return nil, err
	}

	projects, err := s.Store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	summary := &DashboardSummary{
		FiscalYear:       board.FiscalYear,
		PartnerCount:     len(board.Entries),
		ProjectCount:     len(projects),
		CompletedRevenue: decimal.Zero,
		TierCounts:       make(map[string]int),
	}

	for _, entry := range board.Entries {
		summary.CompletedRevenue = summary.CompletedRevenue.Add(entry.Evaluation.Revenue)
		summary.TierCounts[entry.Evaluation.Tier.Tier.Name]++
	}

	return summary, nil
}

package partner_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/agency-engine/partner"
	memstore "github.com/meridianhq/agency-engine/partner/store"
	"github.com/meridianhq/agency-engine/tiering"
)

func testLadder(t *testing.T) tiering.Ladder {
	t.Helper()
	ladder, err := tiering.NewLadder([]tiering.RevenueTier{
		{Name: "Black", MinRevenue: decimal.NewFromInt(500000)},
		{Name: "Diamond", MinRevenue: decimal.NewFromInt(250000)},
		{Name: "Gold", MinRevenue: decimal.NewFromInt(100000)},
		{Name: "Silver", MinRevenue: decimal.NewFromInt(50000)},
		{Name: "Bronze", MinRevenue: decimal.NewFromInt(15000)},
		{Name: "Explorer", MinRevenue: decimal.NewFromInt(0)},
	})
	require.NoError(t, err)
	return ladder
}

func newTestService(t *testing.T) (*partner.Service, *memstore.Memory) {
	t.Helper()
	store := memstore.NewMemory()
	svc := partner.NewService(store, tiering.Engine{
		Calendar: tiering.Calendar{StartMonth: time.April},
		Ladder:   testLadder(t),
	})
	svc.Now = func() time.Time { return date(2025, time.August, 1) }
	return svc, store
}

func seedPartner(t *testing.T, store *memstore.Memory, id, name string, projects ...partner.Project) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SavePartner(ctx, partner.Partner{
		ID: id, Name: name, JoinedAt: date(2024, time.January, 1),
	}))
	for _, p := range projects {
		require.NoError(t, store.SaveProject(ctx, p))
		require.NoError(t, store.SaveAssignment(ctx, partner.Assignment{
			ID:         id + "/" + p.ID,
			PartnerID:  id,
			ProjectID:  p.ID,
			Role:       "referrer",
			AssignedAt: p.CreatedAt,
		}))
	}
}

func TestEvaluatePartner_GoldWithHistory(t *testing.T) {
	svc, store := newTestService(t)

	seedPartner(t, store, "ptr-1", "Northwind",
		partner.Project{ID: "p1", Status: tiering.StatusCompleted, Budget: decPtr(60000), CreatedAt: date(2025, time.May, 1), UpdatedAt: date(2025, time.June, 1)},
		partner.Project{ID: "p2", Status: tiering.StatusCompleted, Budget: decPtr(50000), CreatedAt: date(2025, time.June, 1), UpdatedAt: date(2025, time.July, 1)},
		partner.Project{ID: "p3", Status: tiering.StatusInProgress, Budget: decPtr(999999), CreatedAt: date(2025, time.June, 15)},
		partner.Project{ID: "p4", Status: tiering.StatusCompleted, Budget: decPtr(20000), CreatedAt: date(2024, time.September, 3)},
	)

	eval, err := svc.EvaluatePartner(context.Background(), "ptr-1", "")
	require.NoError(t, err)

	assert.Equal(t, "FY 2025-26", eval.Evaluation.FiscalYear.Label)
	assert.True(t, eval.Evaluation.Revenue.Equal(decimal.NewFromInt(110000)),
		"revenue = %v", eval.Evaluation.Revenue)
	assert.Equal(t, "Gold", eval.Evaluation.Tier.Tier.Name)

	require.Len(t, eval.Evaluation.Ledger, 2)
	assert.Equal(t, "FY 2025-26", eval.Evaluation.Ledger[0].FiscalYearLabel)
	assert.Equal(t, "FY 2024-25", eval.Evaluation.Ledger[1].FiscalYearLabel)
}

func TestEvaluatePartner_TargetYear(t *testing.T) {
	svc, store := newTestService(t)

	seedPartner(t, store, "ptr-1", "Northwind",
		partner.Project{ID: "p1", Status: tiering.StatusCompleted, Budget: decPtr(20000), CreatedAt: date(2024, time.September, 3)},
		partner.Project{ID: "p2", Status: tiering.StatusCompleted, Budget: decPtr(300000), CreatedAt: date(2025, time.June, 3)},
	)

	eval, err := svc.EvaluatePartner(context.Background(), "ptr-1", "FY 2024-25")
	require.NoError(t, err)

	assert.Equal(t, "FY 2024-25", eval.Evaluation.FiscalYear.Label)
	assert.Equal(t, "Bronze", eval.Evaluation.Tier.Tier.Name)
}

func TestEvaluatePartner_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EvaluatePartner(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, partner.ErrPartnerNotFound)
	assert.True(t, partner.IsNotFound(err))
}

func TestEvaluatePartner_NoProjects(t *testing.T) {
	svc, store := newTestService(t)
	seedPartner(t, store, "ptr-1", "Northwind")

	eval, err := svc.EvaluatePartner(context.Background(), "ptr-1", "")
	require.NoError(t, err)

	assert.True(t, eval.Evaluation.Revenue.IsZero())
	assert.Equal(t, "Explorer", eval.Evaluation.Tier.Tier.Name)
	assert.Empty(t, eval.Evaluation.Ledger)
}

func TestAwards_TargetYearHeaderIgnoresListOrder(t *testing.T) {
	svc, store := newTestService(t)

	// The first partner in list order has no revenue in the requested
	// year; the second does. The board header must still show the
	// requested year, not the first partner's fallback year.
	seedPartner(t, store, "ptr-a", "Aster",
		partner.Project{ID: "a1", Status: tiering.StatusCompleted, Budget: decPtr(40000), CreatedAt: date(2025, time.June, 1)},
	)
	seedPartner(t, store, "ptr-z", "Zenith",
		partner.Project{ID: "z1", Status: tiering.StatusCompleted, Budget: decPtr(70000), CreatedAt: date(2024, time.September, 1)},
	)

	board, err := svc.Awards(context.Background(), "FY 2024-25")
	require.NoError(t, err)

	assert.Equal(t, "FY 2024-25", board.FiscalYear.Label)
	assert.True(t, board.FiscalYear.Start.Equal(date(2024, time.April, 1)),
		"header window start = %v", board.FiscalYear.Start)
}

func TestAwards_RankedByRevenue(t *testing.T) {
	svc, store := newTestService(t)

	seedPartner(t, store, "ptr-a", "Acme",
		partner.Project{ID: "a1", Status: tiering.StatusCompleted, Budget: decPtr(60000), CreatedAt: date(2025, time.May, 1)})
	seedPartner(t, store, "ptr-b", "Borealis",
		partner.Project{ID: "b1", Status: tiering.StatusCompleted, Budget: decPtr(275000), CreatedAt: date(2025, time.May, 1)})
	seedPartner(t, store, "ptr-c", "Cascade")

	board, err := svc.Awards(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, board.Entries, 3)
	assert.Equal(t, "Borealis", board.Entries[0].Partner.Name)
	assert.Equal(t, "Diamond", board.Entries[0].Evaluation.Tier.Tier.Name)
	assert.Equal(t, "Acme", board.Entries[1].Partner.Name)
	assert.Equal(t, "Silver", board.Entries[1].Evaluation.Tier.Tier.Name)
	assert.Equal(t, "Cascade", board.Entries[2].Partner.Name)
	assert.Equal(t, "Explorer", board.Entries[2].Evaluation.Tier.Tier.Name)
	assert.Equal(t, "FY 2025-26", board.FiscalYear.Label)
}

func TestAwards_TiesKeepNameOrder(t *testing.T) {
	svc, store := newTestService(t)

	seedPartner(t, store, "ptr-z", "Zenith",
		partner.Project{ID: "z1", Status: tiering.StatusCompleted, Budget: decPtr(40000), CreatedAt: date(2025, time.May, 1)})
	seedPartner(t, store, "ptr-a", "Aurora",
		partner.Project{ID: "a1", Status: tiering.StatusCompleted, Budget: decPtr(40000), CreatedAt: date(2025, time.May, 1)})

	board, err := svc.Awards(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, board.Entries, 2)
	assert.Equal(t, "Aurora", board.Entries[0].Partner.Name)
	assert.Equal(t, "Zenith", board.Entries[1].Partner.Name)
}

func TestDashboard_Summary(t *testing.T) {
	svc, store := newTestService(t)

	seedPartner(t, store, "ptr-a", "Acme",
		partner.Project{ID: "a1", Status: tiering.StatusCompleted, Budget: decPtr(120000), CreatedAt: date(2025, time.May, 1)})
	seedPartner(t, store, "ptr-b", "Borealis",
		partner.Project{ID: "b1", Status: tiering.StatusCompleted, Budget: decPtr(30000), CreatedAt: date(2025, time.May, 2)},
		partner.Project{ID: "b2", Status: tiering.StatusLead, Budget: nil, CreatedAt: date(2025, time.June, 2)})

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.PartnerCount)
	assert.Equal(t, 3, summary.ProjectCount)
	assert.True(t, summary.CompletedRevenue.Equal(decimal.NewFromInt(150000)),
		"revenue = %v", summary.CompletedRevenue)
	assert.Equal(t, 1, summary.TierCounts["Gold"])
	assert.Equal(t, 1, summary.TierCounts["Bronze"])
}

/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates partners, projects,
	and assignments that demonstrate specific tier-engine behavior.

AVAILABLE SCENARIOS:

	agency-portfolio: Partners spread across the full ladder
	new-partner:      Single partner with no completed work yet
	year-boundary:    Projects straddling the fiscal-year boundary
	near-promotion:   Partner sitting just below the next threshold

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save the active program config
 3. Create partners
 4. Create projects with statuses and budgets
 5. Link partners to projects via assignments

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "agency-portfolio"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler dependencies and response helpers
  - factory/program.go: Program JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/factory"
	"github.com/meridianhq/agency-engine/partner"
	"github.com/meridianhq/agency-engine/store/sqlite"
	"github.com/meridianhq/agency-engine/tiering"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "agency-portfolio",
		Name:        "Agency Portfolio",
		Description: "Four partners spread across the ladder, from Explorer to Diamond",
	},
	{
		ID:          "new-partner",
		Name:        "New Partner",
		Description: "One partner with pipeline work but no completed revenue yet",
	},
	{
		ID:          "year-boundary",
		Name:        "Fiscal-Year Boundary",
		Description: "Completed projects on both sides of the April 1 boundary",
	},
	{
		ID:          "near-promotion",
		Name:        "Near Promotion",
		Description: "A partner sitting just below the next tier threshold",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	// Persist the active program so the demo data and the ladder that
	// scores it travel together.
	if err := h.Store.SaveProgram(ctx, sqlite.ProgramRecord{
		Name:       "Partner Rewards",
		ConfigJSON: factory.DefaultProgramJSON(),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save program", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "agency-portfolio":
		err = h.loadAgencyPortfolioScenario(ctx)
	case "new-partner":
		err = h.loadNewPartnerScenario(ctx)
	case "year-boundary":
		err = h.loadYearBoundaryScenario(ctx)
	case "near-promotion":
		err = h.loadNearPromotionScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SEED HELPERS
// =============================================================================

type seedProject struct {
	id     string
	name   string
	status tiering.ProjectStatus
	budget float64
	when   time.Time // becomes both CreatedAt and UpdatedAt
}

func (h *Handler) seedPartner(ctx context.Context, id, name, company string, joined time.Time) error {
	return h.Store.SavePartner(ctx, partner.Partner{
		ID:       id,
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", id),
		Company:  company,
		JoinedAt: joined,
	})
}

func (h *Handler) seedProjects(ctx context.Context, partnerID string, projects []seedProject) error {
	for _, sp := range projects {
		budget := decimal.NewFromFloat(sp.budget)
		p := partner.Project{
			ID:        sp.id,
			Name:      sp.name,
			Status:    sp.status,
			Budget:    &budget,
			CreatedAt: sp.when,
			UpdatedAt: sp.when,
		}
		if err := h.Store.SaveProject(ctx, p); err != nil {
			return fmt.Errorf("save project %s: %w", sp.id, err)
		}
		if err := h.Store.SaveAssignment(ctx, partner.Assignment{
			PartnerID:  partnerID,
			ProjectID:  sp.id,
			Role:       "delivery",
			AssignedAt: sp.when,
		}); err != nil {
			return fmt.Errorf("assign project %s: %w", sp.id, err)
		}
	}
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadAgencyPortfolioScenario(ctx context.Context) error {
	joined := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	partners := []struct {
		id, name, company string
		projects          []seedProject
	}{
		{
			"ptr-borealis", "Borealis Digital", "Borealis Digital Oy",
			[]seedProject{
				{"prj-b1", "Retail platform rebuild", tiering.StatusCompleted, 180000, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)},
				{"prj-b2", "Loyalty app", tiering.StatusCompleted, 95000, time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)},
				{"prj-b3", "Data warehouse", tiering.StatusInProgress, 120000, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			"ptr-acme", "Acme Studio", "Acme Studio LLC",
			[]seedProject{
				{"prj-a1", "Brand site", tiering.StatusCompleted, 42000, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)},
				{"prj-a2", "Campaign microsite", tiering.StatusCompleted, 18000, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			"ptr-cascade", "Cascade Works", "Cascade Works Inc",
			[]seedProject{
				{"prj-c1", "Booking system", tiering.StatusCompleted, 16000, time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			"ptr-dunes", "Dunes Creative", "Dunes Creative Ltd",
			[]seedProject{
				{"prj-d1", "Discovery sprint", tiering.StatusProposal, 25000, time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)},
			},
		},
	}

	for _, p := range partners {
		if err := h.seedPartner(ctx, p.id, p.name, p.company, joined); err != nil {
			return err
		}
		if err := h.seedProjects(ctx, p.id, p.projects); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadNewPartnerScenario(ctx context.Context) error {
	joined := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	if err := h.seedPartner(ctx, "ptr-nova", "Nova Collective", "Nova Collective AB", joined); err != nil {
		return err
	}
	return h.seedProjects(ctx, "ptr-nova", []seedProject{
		{"prj-n1", "E-commerce audit", tiering.StatusLead, 30000, time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)},
		{"prj-n2", "Checkout redesign", tiering.StatusProposal, 55000, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)},
	})
}

func (h *Handler) loadYearBoundaryScenario(ctx context.Context) error {
	joined := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if err := h.seedPartner(ctx, "ptr-meridian", "Meridian Partners", "Meridian Partners GmbH", joined); err != nil {
		return err
	}
	// Two completed projects in March (prior fiscal year), two in
	// April (current fiscal year). The revenue ledger shows both years.
	return h.seedProjects(ctx, "ptr-meridian", []seedProject{
		{"prj-m1", "Intranet revamp", tiering.StatusCompleted, 60000, time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{"prj-m2", "SSO rollout", tiering.StatusCompleted, 35000, time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)},
		{"prj-m3", "Mobile app phase 1", tiering.StatusCompleted, 80000, time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)},
		{"prj-m4", "Mobile app phase 2", tiering.StatusCompleted, 45000, time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)},
	})
}

func (h *Handler) loadNearPromotionScenario(ctx context.Context) error {
	joined := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	if err := h.seedPartner(ctx, "ptr-vector", "Vector & Sons", "Vector & Sons BV", joined); err != nil {
		return err
	}
	// 95,000 completed: Gold is at 100,000, so the tier card shows 95%
	// progress from Silver.
	return h.seedProjects(ctx, "ptr-vector", []seedProject{
		{"prj-v1", "ERP integration", tiering.StatusCompleted, 70000, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{"prj-v2", "Reporting suite", tiering.StatusCompleted, 25000, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)},
		{"prj-v3", "Support retainer", tiering.StatusInProgress, 40000, time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)},
	})
}

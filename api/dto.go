/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Partner:
    PartnerDTO, CreatePartnerRequest

  Project:
    ProjectDTO, CreateProjectRequest

  Evaluation:
    FiscalYearDTO, LedgerEntryDTO, TierDTO, RevenueResponse, TierResponse

  Awards / Dashboard:
    AwardsEntryDTO, AwardsBoardDTO, DashboardDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

MONEY:
  Decimal amounts cross the wire as JSON numbers via Float64(). The
  precision-sensitive arithmetic all happens before conversion.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/program.go: ProgramJSON type
*/
package api

import (
	"time"

	"github.com/meridianhq/agency-engine/partner"
	"github.com/meridianhq/agency-engine/tiering"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PartnerDTO represents a partner in API responses.
type PartnerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	JoinedAt string `json:"joined_at"`
}

// CreatePartnerRequest is the request to create a partner.
type CreatePartnerRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	JoinedAt string `json:"joined_at"` // YYYY-MM-DD
}

// ProjectDTO represents a project in API responses. Budget is null for
// projects that do not have an agreed budget yet.
type ProjectDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	Budget    *float64 `json:"budget"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// CreateProjectRequest is the request to create or update a project.
type CreateProjectRequest struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Budget *float64 `json:"budget,omitempty"`
}

// AssignmentDTO represents a partner-project assignment.
type AssignmentDTO struct {
	ID         string `json:"id"`
	PartnerID  string `json:"partner_id"`
	ProjectID  string `json:"project_id"`
	Role       string `json:"role,omitempty"`
	AssignedAt string `json:"assigned_at"`
}

// CreateAssignmentRequest is the request to assign a partner to a project.
type CreateAssignmentRequest struct {
	PartnerID string `json:"partner_id"`
	ProjectID string `json:"project_id"`
	Role      string `json:"role,omitempty"`
}

// FiscalYearDTO represents a fiscal-year window.
type FiscalYearDTO struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// LedgerEntryDTO is one fiscal year's accumulated revenue.
type LedgerEntryDTO struct {
	FiscalYear string  `json:"fiscal_year"`
	Amount     float64 `json:"amount"`
}

// TierDTO represents one rung of the reward ladder.
type TierDTO struct {
	Name        string  `json:"name"`
	MinRevenue  float64 `json:"min_revenue"`
	Description string  `json:"description,omitempty"`
	Rewards     string  `json:"rewards,omitempty"`
}

// RevenueResponse is the per-partner revenue ledger.
type RevenueResponse struct {
	Partner    PartnerDTO       `json:"partner"`
	FiscalYear FiscalYearDTO    `json:"fiscal_year"`
	Revenue    float64          `json:"revenue"`
	Ledger     []LedgerEntryDTO `json:"ledger"`
}

// TierResponse is the per-partner tier evaluation.
type TierResponse struct {
	Partner        PartnerDTO    `json:"partner"`
	FiscalYear     FiscalYearDTO `json:"fiscal_year"`
	Revenue        float64       `json:"revenue"`
	Tier           TierDTO       `json:"tier"`
	NextTier       *TierDTO      `json:"next_tier,omitempty"`
	ProgressToNext float64       `json:"progress_to_next"`
}

// AwardsEntryDTO is one row of the awards board.
type AwardsEntryDTO struct {
	Rank    int        `json:"rank"`
	Partner PartnerDTO `json:"partner"`
	Revenue float64    `json:"revenue"`
	Tier    string     `json:"tier"`
}

// AwardsBoardDTO is the full awards board for one fiscal year.
type AwardsBoardDTO struct {
	FiscalYear FiscalYearDTO    `json:"fiscal_year"`
	Entries    []AwardsEntryDTO `json:"entries"`
}

// DashboardDTO is the admin dashboard summary.
type DashboardDTO struct {
	FiscalYear       FiscalYearDTO  `json:"fiscal_year"`
	PartnerCount     int            `json:"partner_count"`
	ProjectCount     int            `json:"project_count"`
	CompletedRevenue float64        `json:"completed_revenue"`
	TierCounts       map[string]int `json:"tier_counts"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPartnerDTO(p partner.Partner) PartnerDTO {
	return PartnerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Email:    p.Email,
		Company:  p.Company,
		JoinedAt: p.JoinedAt.Format("2006-01-02"),
	}
}

func toProjectDTO(p partner.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.Budget != nil {
		budget, _ := p.Budget.Float64()
		dto.Budget = &budget
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toFiscalYearDTO(fy tiering.FiscalYear) FiscalYearDTO {
	return FiscalYearDTO{
		Label: fy.Label,
		Start: fy.Start.Format(time.RFC3339),
		End:   fy.End.Format("2006-01-02T15:04:05.999Z07:00"),
	}
}

func toTierDTO(t tiering.RevenueTier) TierDTO {
	min, _ := t.MinRevenue.Float64()
	return TierDTO{
		Name:        t.Name,
		MinRevenue:  min,
		Description: t.Description,
		Rewards:     t.Rewards,
	}
}

func toLedgerDTOs(entries []tiering.LedgerEntry) []LedgerEntryDTO {
	dtos := make([]LedgerEntryDTO, len(entries))
	for i, e := range entries {
		amount, _ := e.Amount.Float64()
		dtos[i] = LedgerEntryDTO{FiscalYear: e.FiscalYearLabel, Amount: amount}
	}
	return dtos
}

/*
handlers.go - HTTP API handlers for the partner rewards portal

PURPOSE:
  Exposes the tier engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Partners:
    GET    /api/partners               List all partners
    POST   /api/partners               Create partner
    GET    /api/partners/{id}          Get partner details
    GET    /api/partners/{id}/revenue  Fiscal-year revenue ledger
    GET    /api/partners/{id}/tier     Tier evaluation
    GET    /api/partners/{id}/projects Projects assigned to partner

  Projects:
    GET    /api/projects               List all projects
    POST   /api/projects               Create/update project
    GET    /api/projects/{id}          Get project details

  Assignments:
    POST   /api/assignments            Link a partner to a project

  Program:
    GET    /api/tiers                  The configured reward ladder

  Reporting:
    GET    /api/awards                 Awards board (ranked by revenue)
    GET    /api/dashboard              Admin summary cards

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Service: Engine-backed evaluation
  - Ladder/Calendar: The active reward program

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (service, engine)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

  Evaluation endpoints never 500 on ladder problems: the program is
  validated at startup, so a running server has a well-formed ladder.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/partner"
	"github.com/meridianhq/agency-engine/store/sqlite"
	"github.com/meridianhq/agency-engine/tiering"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Service  *partner.Service
	Calendar tiering.Calendar
	Ladder   tiering.Ladder

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and reward program.
func NewHandler(store *sqlite.Store, cal tiering.Calendar, ladder tiering.Ladder) *Handler {
	engine := tiering.Engine{Calendar: cal, Ladder: ladder}
	return &Handler{
		Store:    store,
		Service:  partner.NewService(store, engine),
		Calendar: cal,
		Ladder:   ladder,
	}
}

var validStatuses = map[tiering.ProjectStatus]bool{
	tiering.StatusLead:       true,
	tiering.StatusProposal:   true,
	tiering.StatusInProgress: true,
	tiering.StatusOnHold:     true,
	tiering.StatusCompleted:  true,
	tiering.StatusCancelled:  true,
}

// =============================================================================
// PARTNER HANDLERS
// =============================================================================

// ListPartners returns all partners.
func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.Store.ListPartners(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list partners", err)
		return
	}

	dtos := make([]PartnerDTO, len(partners))
	for i, p := range partners {
		dtos[i] = toPartnerDTO(p)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetPartner returns a single partner.
func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetPartner(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get partner", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toPartnerDTO(*p))
}

// CreatePartner creates a new partner.
func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req CreatePartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	joinedAt := time.Now().UTC()
	if req.JoinedAt != "" {
		parsed, err := time.Parse("2006-01-02", req.JoinedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid joined_at format (use YYYY-MM-DD)", err)
			return
		}
		joinedAt = parsed
	}

	p := partner.Partner{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		JoinedAt: joinedAt,
	}

	if err := h.Store.SavePartner(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create partner", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPartnerDTO(p))
}

// GetPartnerProjects returns the projects assigned to a partner.
func (h *Handler) GetPartnerProjects(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	p, err := h.Store.GetPartner(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get partner", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}

	projects, err := h.Store.ProjectsByPartner(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, proj := range projects {
		dtos[i] = toProjectDTO(proj)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EVALUATION HANDLERS
// =============================================================================

// GetPartnerRevenue returns the fiscal-year revenue ledger for a partner.
// Accepts ?fiscal_year=FY 2025-26 to select a specific year.
func (h *Handler) GetPartnerRevenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fiscalYear := r.URL.Query().Get("fiscal_year")

	eval, err := h.Service.EvaluatePartner(r.Context(), id, fiscalYear)
	if err != nil {
		if partner.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Partner not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to evaluate partner", err)
		return
	}

	revenue, _ := eval.Evaluation.Revenue.Float64()
	writeJSON(w, http.StatusOK, RevenueResponse{
		Partner:    toPartnerDTO(eval.Partner),
		FiscalYear: toFiscalYearDTO(eval.Evaluation.FiscalYear),
		Revenue:    revenue,
		Ledger:     toLedgerDTOs(eval.Evaluation.Ledger),
	})
}

// GetPartnerTier returns the tier evaluation for a partner.
// Accepts ?fiscal_year=FY 2025-26 to select a specific year.
func (h *Handler) GetPartnerTier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fiscalYear := r.URL.Query().Get("fiscal_year")

	eval, err := h.Service.EvaluatePartner(r.Context(), id, fiscalYear)
	if err != nil {
		if partner.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Partner not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to evaluate partner", err)
		return
	}

	revenue, _ := eval.Evaluation.Revenue.Float64()
	progress, _ := eval.Evaluation.Tier.ProgressToNext.Float64()

	resp := TierResponse{
		Partner:        toPartnerDTO(eval.Partner),
		FiscalYear:     toFiscalYearDTO(eval.Evaluation.FiscalYear),
		Revenue:        revenue,
		Tier:           toTierDTO(eval.Evaluation.Tier.Tier),
		ProgressToNext: progress,
	}
	if next := eval.Evaluation.Tier.NextTier; next != nil {
		dto := toTierDTO(*next)
		resp.NextTier = &dto
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(*p))
}

// CreateProject creates a project, or updates an existing one when the
// request carries a known ID. Updates stamp UpdatedAt, which moves the
// project's fiscal-year attribution.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	status := tiering.ProjectStatus(req.Status)
	if req.Status == "" {
		status = tiering.StatusLead
	} else if !validStatuses[status] {
		writeError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	p := partner.Project{
		ID:        req.ID,
		Name:      req.Name,
		Status:    status,
		CreatedAt: now,
	}
	if req.Budget != nil {
		budget := decimal.NewFromFloat(*req.Budget)
		p.Budget = &budget
	}

	created := http.StatusCreated
	if req.ID != "" {
		existing, err := h.Store.GetProject(ctx, req.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to look up project", err)
			return
		}
		if existing != nil {
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = now
			created = http.StatusOK
		}
	}

	if err := h.Store.SaveProject(ctx, p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}

	writeJSON(w, created, toProjectDTO(p))
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// CreateAssignment links a partner to a project. Re-posting the same
// pair updates the role instead of creating a duplicate.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PartnerID == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "partner_id and project_id are required", nil)
		return
	}

	ctx := r.Context()

	p, err := h.Store.GetPartner(ctx, req.PartnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up partner", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}

	proj, err := h.Store.GetProject(ctx, req.ProjectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up project", err)
		return
	}
	if proj == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	a := partner.Assignment{
		PartnerID:  req.PartnerID,
		ProjectID:  req.ProjectID,
		Role:       req.Role,
		AssignedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveAssignment(ctx, a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}

	// Read back: the store assigns the ID, and re-posting an existing
	// pair keeps the original one.
	assignments, err := h.Store.AssignmentsByPartner(ctx, req.PartnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignment", err)
		return
	}
	for _, stored := range assignments {
		if stored.ProjectID == req.ProjectID {
			a = stored
			break
		}
	}

	writeJSON(w, http.StatusCreated, AssignmentDTO{
		ID:         a.ID,
		PartnerID:  a.PartnerID,
		ProjectID:  a.ProjectID,
		Role:       a.Role,
		AssignedAt: a.AssignedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// PROGRAM HANDLERS
// =============================================================================

// ListTiers returns the configured reward ladder, highest tier first.
func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := h.Ladder.Tiers()
	dtos := make([]TierDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = toTierDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// GetAwards returns the awards board: every partner ranked by revenue
// for the requested fiscal year (current year by default).
func (h *Handler) GetAwards(w http.ResponseWriter, r *http.Request) {
	fiscalYear := r.URL.Query().Get("fiscal_year")

	board, err := h.Service.Awards(r.Context(), fiscalYear)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build awards board", err)
		return
	}

	dto := AwardsBoardDTO{
		FiscalYear: toFiscalYearDTO(board.FiscalYear),
		Entries:    make([]AwardsEntryDTO, len(board.Entries)),
	}
	for i, entry := range board.Entries {
		revenue, _ := entry.Evaluation.Revenue.Float64()
		dto.Entries[i] = AwardsEntryDTO{
			Rank:    i + 1,
			Partner: toPartnerDTO(entry.Partner),
			Revenue: revenue,
			Tier:    entry.Evaluation.Tier.Tier.Name,
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetDashboard returns the admin summary cards.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}

	revenue, _ := summary.CompletedRevenue.Float64()
	writeJSON(w, http.StatusOK, DashboardDTO{
		FiscalYear:       toFiscalYearDTO(summary.FiscalYear),
		PartnerCount:     summary.PartnerCount,
		ProjectCount:     summary.ProjectCount,
		CompletedRevenue: revenue,
		TierCounts:       summary.TierCounts,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

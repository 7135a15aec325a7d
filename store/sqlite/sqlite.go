/*
Package sqlite provides a SQLite-backed implementation of the partner
storage interfaces.

PURPOSE:
  Implements partner.Store using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  partners:            Partner records
  projects:            Client projects with pipeline status and budget
  project_assignments: Partner-to-project links
  tier_programs:       Stored tier program JSON (configuration)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/agency.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - partner/store.go: Interface definitions
  - partner/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/partner"
	"github.com/meridianhq/agency-engine/tiering"
)

// Store implements partner.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Partners enrolled in the rewards program
	CREATE TABLE IF NOT EXISTS partners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		company TEXT,
		joined_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Client projects
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		budget TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_projects_status
		ON projects(status);

	-- Partner-to-project links
	CREATE TABLE IF NOT EXISTS project_assignments (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		role TEXT,
		assigned_at TEXT NOT NULL,
		UNIQUE(partner_id, project_id)
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_partner
		ON project_assignments(partner_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_project
		ON project_assignments(project_id);

	-- Tier program configuration (stored JSON, versioned)
	CREATE TABLE IF NOT EXISTS tier_programs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PARTNER STORE (partner.PartnerStore interface)
// =============================================================================

// SavePartner inserts or updates a partner. An empty ID is assigned
// a fresh UUID.
func (s *Store) SavePartner(ctx context.Context, p partner.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO partners (id, name, email, company, joined_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			company = excluded.company,
			joined_at = excluded.joined_at
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Email, p.Company,
		p.JoinedAt.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetPartner retrieves a partner by ID. Returns (nil, nil) when absent.
func (s *Store) GetPartner(ctx context.Context, id string) (*partner.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p partner.Partner
	var joinedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, company, joined_at FROM partners WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Company, &joinedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.JoinedAt, _ = time.Parse(time.RFC3339, joinedAt)
	return &p, nil
}

// ListPartners returns all partners ordered by name.
func (s *Store) ListPartners(ctx context.Context) ([]partner.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, company, joined_at FROM partners ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []partner.Partner
	for rows.Next() {
		var p partner.Partner
		var joinedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Company, &joinedAt); err != nil {
			return nil, err
		}
		p.JoinedAt, _ = time.Parse(time.RFC3339, joinedAt)
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

// =============================================================================
// PROJECT STORE (partner.ProjectStore interface)
// =============================================================================

// SaveProject inserts or updates a project. Budget is stored as a
// decimal string to avoid float drift; NULL means no budget agreed.
func (s *Store) SaveProject(ctx context.Context, p partner.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	var budget sql.NullString
	if p.Budget != nil {
		budget = sql.NullString{String: p.Budget.String(), Valid: true}
	}
	var updatedAt sql.NullString
	if !p.UpdatedAt.IsZero() {
		updatedAt = sql.NullString{String: p.UpdatedAt.Format(time.RFC3339), Valid: true}
	}

	query := `
		INSERT INTO projects (id, name, status, budget, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			budget = excluded.budget,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, string(p.Status), budget,
		p.CreatedAt.Format(time.RFC3339), updatedAt,
	)
	return err
}

// GetProject retrieves a project by ID. Returns (nil, nil) when absent.
func (s *Store) GetProject(ctx context.Context, id string) (*partner.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, status, budget, created_at, updated_at FROM projects WHERE id = ?",
		id,
	)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns all projects ordered by creation time.
func (s *Store) ListProjects(ctx context.Context) ([]partner.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryProjects(ctx,
		"SELECT id, name, status, budget, created_at, updated_at FROM projects ORDER BY created_at",
	)
}

// ProjectsByPartner returns the projects a partner is assigned to.
func (s *Store) ProjectsByPartner(ctx context.Context, partnerID string) ([]partner.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT p.id, p.name, p.status, p.budget, p.created_at, p.updated_at
		FROM projects p
		JOIN project_assignments a ON a.project_id = p.id
		WHERE a.partner_id = ?
		ORDER BY p.created_at
	`
	return s.queryProjects(ctx, query, partnerID)
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]partner.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []partner.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*partner.Project, error) {
	var p partner.Project
	var status, createdAt string
	var budget, updatedAt sql.NullString

	if err := row.Scan(&p.ID, &p.Name, &status, &budget, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.Status = tiering.ProjectStatus(status)
	if budget.Valid {
		d, err := decimal.NewFromString(budget.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt budget for project %s: %w", p.ID, err)
		}
		p.Budget = &d
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if updatedAt.Valid {
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt.String)
	}
	return &p, nil
}

// =============================================================================
// ASSIGNMENT STORE (partner.AssignmentStore interface)
// =============================================================================

// SaveAssignment links a partner to a project. Re-assigning the same
// pair updates the role rather than duplicating the link.
func (s *Store) SaveAssignment(ctx context.Context, a partner.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO project_assignments (id, partner_id, project_id, role, assigned_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(partner_id, project_id) DO UPDATE SET
			role = excluded.role
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.PartnerID, a.ProjectID, a.Role,
		a.AssignedAt.Format(time.RFC3339),
	)
	return err
}

// AssignmentsByPartner returns all assignments for a partner.
func (s *Store) AssignmentsByPartner(ctx context.Context, partnerID string) ([]partner.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, partner_id, project_id, role, assigned_at FROM project_assignments WHERE partner_id = ? ORDER BY assigned_at",
		partnerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []partner.Assignment
	for rows.Next() {
		var a partner.Assignment
		var assignedAt string
		if err := rows.Scan(&a.ID, &a.PartnerID, &a.ProjectID, &a.Role, &assignedAt); err != nil {
			return nil, err
		}
		a.AssignedAt, _ = time.Parse(time.RFC3339, assignedAt)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// =============================================================================
// TIER PROGRAM CONFIGURATION
// =============================================================================

// ProgramRecord is a stored tier program configuration.
type ProgramRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
}

// SaveProgram stores a tier program JSON.
func (s *Store) SaveProgram(ctx context.Context, r ProgramRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Version == 0 {
		r.Version = 1
	}

	query := `
		INSERT INTO tier_programs (id, name, config_json, version, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = tier_programs.version + 1
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Name, r.ConfigJSON, r.Version,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// LatestProgram returns the most recently created program, or
// (nil, nil) when none is stored.
func (s *Store) LatestProgram(ctx context.Context) (*ProgramRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r ProgramRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at FROM tier_programs ORDER BY created_at DESC LIMIT 1",
	).Scan(&r.ID, &r.Name, &r.ConfigJSON, &r.Version, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// Reset wipes all data. Used by the demo scenario loader.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"project_assignments", "projects", "partners", "tier_programs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Compile-time check that Store implements the full partner surface.
var _ partner.Store = (*Store)(nil)

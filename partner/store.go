/*
store.go - Persistence interfaces for the partner domain

PURPOSE:
  Defines the interface between the evaluation service and the
  database. The engine itself never touches storage; these interfaces
  only materialize the rows the service feeds into it.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - partner/store: In-memory for testing/dev
*/
package partner

import "context"

// PartnerStore persists partner records.
type PartnerStore interface {
	SavePartner(ctx context.Context, p Partner) error
	GetPartner(ctx context.Context, id string) (*Partner, error)
	ListPartners(ctx context.Context) ([]Partner, error)
}

// ProjectStore persists project records.
type ProjectStore interface {
	SaveProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)

	// ProjectsByPartner returns the projects a partner is assigned to,
	// via the assignment table.
	ProjectsByPartner(ctx context.Context, partnerID string) ([]Project, error)
}

// AssignmentStore persists partner-to-project links.
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a Assignment) error
	AssignmentsByPartner(ctx context.Context, partnerID string) ([]Assignment, error)
}

// Store is the full persistence surface the service needs.
type Store interface {
	PartnerStore
	ProjectStore
	AssignmentStore
}

// Package store provides partner.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/meridianhq/agency-engine/partner"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	partners    map[string]partner.Partner
	projects    map[string]partner.Project
	assignments map[string][]partner.Assignment // keyed by partner ID
}

func NewMemory() *Memory {
	return &Memory{
		partners:    make(map[string]partner.Partner),
		projects:    make(map[string]partner.Project),
		assignments: make(map[string][]partner.Assignment),
	}
}

func (m *Memory) SavePartner(_ context.Context, p partner.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partners[p.ID] = p
	return nil
}

func (m *Memory) GetPartner(_ context.Context, id string) (*partner.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.partners[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) ListPartners(_ context.Context) ([]partner.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]partner.Partner, 0, len(m.partners))
	for _, p := range m.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveProject(_ context.Context, p partner.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id string) (*partner.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]partner.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]partner.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ProjectsByPartner(_ context.Context, partnerID string) ([]partner.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []partner.Project
	for _, a := range m.assignments[partnerID] {
		if p, ok := m.projects[a.ProjectID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SaveAssignment links a partner to a project. Re-assigning the same
// pair updates the role rather than duplicating the link, matching
// the SQLite store's UNIQUE(partner_id, project_id) behavior. A
// duplicate link would double-count the project's revenue.
func (m *Memory) SaveAssignment(_ context.Context, a partner.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := m.assignments[a.PartnerID]
	for i, cur := range existing {
		if cur.ProjectID == a.ProjectID {
			// Keep the original link identity, refresh the role.
			cur.Role = a.Role
			existing[i] = cur
			return nil
		}
	}
	m.assignments[a.PartnerID] = append(existing, a)
	return nil
}

func (m *Memory) AssignmentsByPartner(_ context.Context, partnerID string) ([]partner.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]partner.Assignment, len(m.assignments[partnerID]))
	copy(out, m.assignments[partnerID])
	return out, nil
}

// Compile-time check that Memory implements the full store surface.
var _ partner.Store = (*Memory)(nil)

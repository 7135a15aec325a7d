package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianhq/agency-engine/partner"
	"github.com/meridianhq/agency-engine/tiering"
)

func TestSaveAssignment_UpsertsOnSamePair(t *testing.T) {
	// GIVEN: An existing partner-project link
	m := NewMemory()
	ctx := context.Background()

	a := partner.Assignment{
		ID: "asg-1", PartnerID: "ptr-1", ProjectID: "prj-1",
		Role: "referrer", AssignedAt: time.Now(),
	}
	if err := m.SaveAssignment(ctx, a); err != nil {
		t.Fatalf("first SaveAssignment failed: %v", err)
	}

	// WHEN: Re-posting the same pair with a new role and ID
	a.ID = "asg-2"
	a.Role = "delivery"
	if err := m.SaveAssignment(ctx, a); err != nil {
		t.Fatalf("second SaveAssignment failed: %v", err)
	}

	// THEN: One assignment, updated role, original ID kept
	assignments, err := m.AssignmentsByPartner(ctx, "ptr-1")
	if err != nil {
		t.Fatalf("AssignmentsByPartner failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment after upsert, got %d", len(assignments))
	}
	if assignments[0].Role != "delivery" {
		t.Errorf("expected updated role, got %s", assignments[0].Role)
	}
	if assignments[0].ID != "asg-1" {
		t.Errorf("expected original assignment ID, got %s", assignments[0].ID)
	}
}

func TestProjectsByPartner_NoDuplicateAfterReassign(t *testing.T) {
	// GIVEN: A completed project assigned to a partner twice
	m := NewMemory()
	ctx := context.Background()

	budget := decimal.NewFromInt(60000)
	if err := m.SaveProject(ctx, partner.Project{
		ID: "prj-1", Name: "Site build", Status: tiering.StatusCompleted,
		Budget:    &budget,
		CreatedAt: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := m.SaveAssignment(ctx, partner.Assignment{
			PartnerID: "ptr-1", ProjectID: "prj-1", Role: "delivery", AssignedAt: time.Now(),
		}); err != nil {
			t.Fatalf("SaveAssignment failed: %v", err)
		}
	}

	// WHEN: Listing the partner's projects
	projects, err := m.ProjectsByPartner(ctx, "ptr-1")
	if err != nil {
		t.Fatalf("ProjectsByPartner failed: %v", err)
	}

	// THEN: The project appears once; a duplicate row would
	// double-count its budget in every revenue evaluation
	if len(projects) != 1 {
		t.Errorf("expected 1 project, got %d", len(projects))
	}
}

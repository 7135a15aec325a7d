package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meridianhq/agency-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadProgram_DefaultsWhenNothingStored(t *testing.T) {
	store := newTestStore(t)

	cal, ladder, err := loadProgram("", store)
	if err != nil {
		t.Fatalf("loadProgram failed: %v", err)
	}
	if cal.StartMonth != time.April {
		t.Errorf("expected April start, got %v", cal.StartMonth)
	}
	if ladder.Len() != 6 {
		t.Errorf("expected built-in 6-tier ladder, got %d tiers", ladder.Len())
	}
}

func TestLoadProgram_PrefersStoredProgram(t *testing.T) {
	// GIVEN: A program stored in the database with a July fiscal start
	store := newTestStore(t)
	if err := store.SaveProgram(context.Background(), sqlite.ProgramRecord{
		Name:       "Custom",
		ConfigJSON: `{"fiscal_year_start": 7, "tiers": [{"name": "Base", "min_revenue": 0}]}`,
	}); err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}

	// WHEN: Loading with no -program flag
	cal, ladder, err := loadProgram("", store)
	if err != nil {
		t.Fatalf("loadProgram failed: %v", err)
	}

	// THEN: The stored program wins over the built-in default
	if cal.StartMonth != time.July {
		t.Errorf("expected July start from stored program, got %v", cal.StartMonth)
	}
	if ladder.Len() != 1 {
		t.Errorf("expected stored 1-tier ladder, got %d tiers", ladder.Len())
	}
}

func TestLoadProgram_FlagOverridesStoredProgram(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveProgram(context.Background(), sqlite.ProgramRecord{
		Name:       "Stored",
		ConfigJSON: `{"fiscal_year_start": 7, "tiers": [{"name": "Base", "min_revenue": 0}]}`,
	}); err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "program.json")
	file := `{"fiscal_year_start": 10, "tiers": [{"name": "Top", "min_revenue": 1000}, {"name": "Base", "min_revenue": 0}]}`
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatalf("Failed to write program file: %v", err)
	}

	cal, ladder, err := loadProgram(path, store)
	if err != nil {
		t.Fatalf("loadProgram failed: %v", err)
	}
	if cal.StartMonth != time.October {
		t.Errorf("expected October start from -program file, got %v", cal.StartMonth)
	}
	if ladder.Len() != 2 {
		t.Errorf("expected 2-tier ladder from file, got %d tiers", ladder.Len())
	}
}

func TestLoadProgram_BadLadderFailsStartup(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(t.TempDir(), "program.json")
	// No zero-floor tier
	file := `{"tiers": [{"name": "Top", "min_revenue": 1000}]}`
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatalf("Failed to write program file: %v", err)
	}

	if _, _, err := loadProgram(path, store); err == nil {
		t.Error("expected error for ladder without a zero floor")
	}
}

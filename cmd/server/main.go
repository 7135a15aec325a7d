/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Agency Partner Rewards server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load the reward program (-program file, else the most recently
     stored program, else the built-in default)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -db       SQLite database path (default: agency.db)
            Use ":memory:" for in-memory database
  -program  Path to a program JSON file overriding both the stored
            program and the built-in default

PROGRAM VALIDATION:
  The tier ladder is validated before the server starts listening.
  A misconfigured ladder (missing zero floor, unsorted thresholds,
  duplicate names) is a startup failure, never a request-time 500.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/agency.db"

  # Run with a custom reward program
  ./server -program="./config/program.json"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  No environment variables currently. All config via flags.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - factory/program.go: Program JSON parsing
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianhq/agency-engine/api"
	"github.com/meridianhq/agency-engine/factory"
	"github.com/meridianhq/agency-engine/store/sqlite"
	"github.com/meridianhq/agency-engine/tiering"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "agency.db", "SQLite database path")
	programPath := flag.String("program", "", "Program JSON file (empty = built-in default)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Load the reward program. Fail fast on a bad ladder.
	cal, ladder, err := loadProgram(*programPath, store)
	if err != nil {
		log.Fatalf("Failed to load reward program: %v", err)
	}

	// Initialize handler
	handler := api.NewHandler(store, cal, ladder)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// loadProgram resolves the active reward program: an explicit
// -program file wins, then the most recently stored program, then the
// built-in default.
func loadProgram(path string, store *sqlite.Store) (tiering.Calendar, tiering.Ladder, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return tiering.Calendar{}, tiering.Ladder{}, fmt.Errorf("read %s: %w", path, err)
		}
		return factory.ParseProgram(string(data))
	}

	record, err := store.LatestProgram(context.Background())
	if err != nil {
		return tiering.Calendar{}, tiering.Ladder{}, fmt.Errorf("load stored program: %w", err)
	}
	if record != nil {
		return factory.ParseProgram(record.ConfigJSON)
	}

	cal, ladder := factory.DefaultProgram()
	return cal, ladder, nil
}

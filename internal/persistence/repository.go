package persistence

import "ashare-backtest-go/internal/models"

// ResultRepository defines the interface for persisting backtest run results.
// It abstracts the underlying storage mechanism (e.g., BadgerDB, in-memory)
// from the rest of the application.
type ResultRepository interface {
	// SaveResult atomically saves one completed run.
	SaveResult(result *models.RunResult) error

	// LoadResult loads a run by its id.
	// If the run is not found, it should return (nil, nil).
	LoadResult(runID string) (*models.RunResult, error)

	// ListRunIDs returns the ids of all persisted runs.
	ListRunIDs() ([]string, error)

	// Close gracefully closes the connection to the database.
	Close() error
}

// Package store persists run history and exported contacts.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the extraction pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Contacts
	SaveContacts(ctx context.Context, runID string, records []model.ContactRecord) (int, error)
	SeenKeys(ctx context.Context) ([]string, error)
	Contacts(ctx context.Context, limit int) ([]model.ContactRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the given driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, databaseURL, nil)
	case "", "sqlite":
		return NewSQLite(databaseURL)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}
